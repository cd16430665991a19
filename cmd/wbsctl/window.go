package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/host"
)

var windowCmd = &cobra.Command{
	Use:     "window",
	Aliases: []string{"win"},
	Short:   "Window commands",
}

var (
	openFolder    string
	openWorkspace string
	openRemote    string
)

var winOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a window on nothing, a folder or a workspace file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		req := host.OpenRequest{RemoteAuthority: openRemote}
		if openFolder != "" {
			loc := core.Location(openFolder)
			req.Folder = &loc
		}
		if openWorkspace != "" {
			loc := core.Location(openWorkspace)
			req.Workspace = &loc
		}
		var info host.Info
		if err := NewClient(apiURL).Post("/v1/windows", req, &info); err != nil {
			fail(err)
		}
		printResult(info)
	},
}

var winListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open windows",
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Windows []host.Info `json:"windows"`
		}
		if err := NewClient(apiURL).Get("/v1/windows", &resp); err != nil {
			fail(err)
		}
		printResult(resp.Windows)
	},
}

var winGetCmd = &cobra.Command{
	Use:   "get <window-id>",
	Short: "Show a window",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var info host.Info
		if err := NewClient(apiURL).Get("/v1/windows/"+args[0], &info); err != nil {
			fail(err)
		}
		printResult(info)
	},
}

var shutdownReason string

var winCloseCmd = &cobra.Command{
	Use:   "close <window-id>",
	Short: "Close, reload or quit a window, asking to save an untitled workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var resp api.ShutdownResponse
		err := NewClient(apiURL).postAnswering("/v1/windows/"+args[0]+"/shutdown", presetAnswers(), func(ans api.Answers) interface{} {
			return api.ShutdownRequest{Reason: shutdownReason, Answers: ans}
		}, &resp)
		if err != nil {
			fail(err)
		}
		if output == "json" {
			printResult(resp)
			return
		}
		printNotifications(resp.Notifications)
		if resp.Vetoed {
			fmt.Println(warningColor.Sprint("Shutdown vetoed."))
			return
		}
		fmt.Printf("Window %s: %s done.\n", args[0], shutdownReason)
	},
}

func init() {
	winOpenCmd.Flags().StringVar(&openFolder, "folder", "", "Folder to open")
	winOpenCmd.Flags().StringVar(&openWorkspace, "workspace", "", "Workspace file to open")
	winOpenCmd.Flags().StringVar(&openRemote, "remote", "", "Remote authority of the window")
	winCloseCmd.Flags().StringVar(&shutdownReason, "reason", "close", "Shutdown reason (close, quit, reload, load)")

	windowCmd.AddCommand(winOpenCmd, winListCmd, winGetCmd, winCloseCmd)
	rootCmd.AddCommand(windowCmd)
}
