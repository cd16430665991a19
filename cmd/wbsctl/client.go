package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
)

type Client struct {
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// APIError is a non-2xx response.
type APIError struct {
	Status int
	api.ErrorResponse
}

func (e *APIError) Error() string {
	if e.EditCode != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.EditCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (c *Client) Get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) Post(path string, body interface{}, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) Put(path string, body interface{}, out interface{}) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return parseResponse(resp, out)
}

func parseResponse(resp *http.Response, out interface{}) error {
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(b, &apiErr.ErrorResponse); err != nil {
			apiErr.Code = resp.Status
			apiErr.Message = string(b)
		}
		return apiErr
	}
	if out != nil && len(b) > 0 {
		return json.Unmarshal(b, out)
	}
	return nil
}

// postAnswering posts the request built by build. When the server stops at
// an unanswered dialog the prompt is shown on the terminal and the request is
// replayed with every answer collected so far.
func (c *Client) postAnswering(path string, seed api.Answers, build func(api.Answers) interface{}, out interface{}) error {
	ans := seed
	term := dialog.NewTerminal(os.Stdin, os.Stderr)
	for {
		err := c.Post(path, build(ans), out)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Code != string(core.ErrAnswerRequired) || apiErr.Prompt == nil || !interactive {
			return err
		}

		p := apiErr.Prompt
		switch p.Kind {
		case dialog.PromptChoice:
			idx, err := term.ShowChoice(context.Background(), p.Severity, p.Message, p.Buttons, dialog.ChoiceOptions{Detail: p.Detail, CancelIndex: p.Cancel})
			if err != nil {
				return err
			}
			ans.Choices = append(ans.Choices, p.Buttons[idx])
		case dialog.PromptSave:
			loc, ok, err := term.ShowSaveLocationPicker(context.Background(), dialog.SaveOptions{Title: p.Title, Filters: p.Filters, DefaultLocation: p.Default})
			if err != nil {
				return err
			}
			if !ok {
				loc = ""
			}
			ans.SaveTarget = &loc
		default:
			return err
		}
	}
}
