package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Workspace identity commands",
}

// targetCommand posts {path} to a workspace action of a window.
func targetCommand(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <window-id> <path>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			var resp api.OperationResponse
			err := NewClient(apiURL).postAnswering("/v1/windows/"+args[0]+"/"+action, presetAnswers(), func(ans api.Answers) interface{} {
				return api.TargetRequest{Path: core.Location(args[1]), Answers: ans}
			}, &resp)
			if err != nil {
				fail(err)
			}
			printOperation(resp)
		},
	}
}

var wsValidateCmd = &cobra.Command{
	Use:   "validate <window-id> <path>",
	Short: "Check whether a workspace file may be saved to or entered",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Valid bool `json:"valid"`
		}
		req := api.TargetRequest{Path: core.Location(args[1]), Answers: presetAnswers()}
		if err := NewClient(apiURL).Post("/v1/windows/"+args[0]+"/workspace:validate-target", req, &resp); err != nil {
			fail(err)
		}
		if output == "json" {
			printResult(resp)
			return
		}
		if resp.Valid {
			fmt.Println(infoColor.Sprint("valid"))
			return
		}
		fmt.Println(warningColor.Sprint("already open in another window"))
	},
}

var createSaveTo string

var wsCreateCmd = &cobra.Command{
	Use:   "create <window-id> [folder...]",
	Short: "Create a workspace from folders and enter it",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path *core.Location
		if createSaveTo != "" {
			loc := core.Location(createSaveTo)
			path = &loc
		}
		var resp api.OperationResponse
		err := NewClient(apiURL).postAnswering("/v1/windows/"+args[0]+"/workspace:create", presetAnswers(), func(ans api.Answers) interface{} {
			return api.CreateWorkspaceRequest{Folders: creationRequests(args[1:]), Path: path, Answers: ans}
		}, &resp)
		if err != nil {
			fail(err)
		}
		printOperation(resp)
	},
}

func init() {
	wsCreateCmd.Flags().StringVar(&createSaveTo, "path", "", "Save the new workspace here before entering it")

	workspaceCmd.AddCommand(
		targetCommand("enter", "Enter a workspace file", "workspace:enter"),
		targetCommand("save-as", "Save the current workspace to a new file", "workspace:save-as"),
		targetCommand("save-and-enter", "Save the current workspace or folders and enter the saved file", "workspace:save-and-enter"),
		targetCommand("copy-settings", "Copy workspace settings into another workspace file", "settings:copy"),
		wsValidateCmd,
		wsCreateCmd,
	)
	rootCmd.AddCommand(workspaceCmd)
}
