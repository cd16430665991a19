package exthost

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type Client struct {
	conn *grpc.ClientConn
}

func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial exthost %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Stop(ctx context.Context, windowID string) error {
	return c.conn.Invoke(ctx, methodStop, windowRequest(windowID), new(emptypb.Empty))
}

func (c *Client) Start(ctx context.Context, windowID string) error {
	return c.conn.Invoke(ctx, methodStart, windowRequest(windowID), new(emptypb.Empty))
}

func (c *Client) Status(ctx context.Context, windowID string) (map[string]interface{}, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodStatus, windowRequest(windowID), out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
