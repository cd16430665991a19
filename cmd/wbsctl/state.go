package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/recent"
)

var settingsCmd = &cobra.Command{
	Use:   "settings <window-id>",
	Short: "Show effective settings of a window",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var resp api.SettingsResponse
		if err := NewClient(apiURL).Get("/v1/windows/"+args[0]+"/settings", &resp); err != nil {
			fail(err)
		}
		printResult(resp)
	},
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Window storage commands",
}

var storageListCmd = &cobra.Command{
	Use:   "list <window-id>",
	Short: "List the items of a window's storage namespace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Namespace string            `json:"namespace"`
			Items     map[string]string `json:"items"`
		}
		if err := NewClient(apiURL).Get("/v1/windows/"+args[0]+"/storage", &resp); err != nil {
			fail(err)
		}
		if output == "json" {
			printResult(resp)
			return
		}
		fmt.Println(dimColor.Sprint("namespace " + resp.Namespace))
		items := make(map[string]any, len(resp.Items))
		for k, v := range resp.Items {
			items[k] = v
		}
		for _, k := range sortedKeys(items) {
			fmt.Printf("%s = %s\n", k, resp.Items[k])
		}
	},
}

var storageSetCmd = &cobra.Command{
	Use:   "set <window-id> <key> <value>",
	Short: "Set an item in a window's storage namespace",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		var resp map[string]string
		if err := NewClient(apiURL).Put("/v1/windows/"+args[0]+"/storage/"+args[1], api.PutStorageRequest{Value: args[2]}, &resp); err != nil {
			fail(err)
		}
		printResult(resp)
	},
}

var transitionsLimit int

var transitionsCmd = &cobra.Command{
	Use:   "transitions <window-id>",
	Short: "List identity transitions of a window",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Transitions []core.TransitionEvent `json:"transitions"`
		}
		path := "/v1/windows/" + args[0] + "/transitions?limit=" + strconv.Itoa(transitionsLimit)
		if err := NewClient(apiURL).Get(path, &resp); err != nil {
			fail(err)
		}
		printResult(resp.Transitions)
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened workspaces",
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Workspaces []recent.Entry `json:"workspaces"`
		}
		if err := NewClient(apiURL).Get("/v1/recent", &resp); err != nil {
			fail(err)
		}
		printResult(resp.Workspaces)
	},
}

var dirtyCmd = &cobra.Command{
	Use:   "dirty <path> [true|false]",
	Short: "Mark a file as having unsaved edits, or clear the mark",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		dirty := true
		if len(args) == 2 {
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				fail(err)
			}
			dirty = v
		}
		if err := NewClient(apiURL).Post("/v1/files:mark-dirty", api.MarkDirtyRequest{Path: core.Location(args[0]), Dirty: dirty}, nil); err != nil {
			fail(err)
		}
	},
}

func init() {
	transitionsCmd.Flags().IntVar(&transitionsLimit, "limit", 20, "Maximum number of transitions")

	storageCmd.AddCommand(storageListCmd, storageSetCmd)
	rootCmd.AddCommand(settingsCmd, storageCmd, transitionsCmd, recentCmd, dirtyCmd)
}
