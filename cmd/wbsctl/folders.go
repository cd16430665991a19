package main

import (
	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
)

var foldersCmd = &cobra.Command{
	Use:     "folders",
	Aliases: []string{"f"},
	Short:   "Change the folders of a window",
}

var (
	folderIndex    int
	folderDelete   int
	folderSkipNote bool
)

func creationRequests(paths []string) []core.FolderCreationRequest {
	out := make([]core.FolderCreationRequest, len(paths))
	for i, p := range paths {
		out[i] = core.FolderCreationRequest{Location: core.Location(p)}
	}
	return out
}

var foldersAddCmd = &cobra.Command{
	Use:   "add <window-id> <path>...",
	Short: "Add folders, at --index or at the end",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var index *int
		if cmd.Flags().Changed("index") {
			index = &folderIndex
		}
		var resp api.OperationResponse
		err := NewClient(apiURL).postAnswering("/v1/windows/"+args[0]+"/folders:add", presetAnswers(), func(ans api.Answers) interface{} {
			return api.AddFoldersRequest{Folders: creationRequests(args[1:]), Index: index, SkipErrorNotification: folderSkipNote, Answers: ans}
		}, &resp)
		if err != nil {
			fail(err)
		}
		printOperation(resp)
	},
}

var foldersRemoveCmd = &cobra.Command{
	Use:   "remove <window-id> <path>...",
	Short: "Remove folders",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		locs := make([]core.Location, len(args)-1)
		for i, p := range args[1:] {
			locs[i] = core.Location(p)
		}
		var resp api.OperationResponse
		err := NewClient(apiURL).postAnswering("/v1/windows/"+args[0]+"/folders:remove", presetAnswers(), func(ans api.Answers) interface{} {
			return api.RemoveFoldersRequest{Folders: locs, SkipErrorNotification: folderSkipNote, Answers: ans}
		}, &resp)
		if err != nil {
			fail(err)
		}
		printOperation(resp)
	},
}

var foldersUpdateCmd = &cobra.Command{
	Use:   "update <window-id> [path...]",
	Short: "Delete --delete folders at --index and insert paths there",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var del *int
		if cmd.Flags().Changed("delete") {
			del = &folderDelete
		}
		var resp api.OperationResponse
		err := NewClient(apiURL).postAnswering("/v1/windows/"+args[0]+"/folders:update", presetAnswers(), func(ans api.Answers) interface{} {
			return api.UpdateFoldersRequest{Index: folderIndex, DeleteCount: del, Add: creationRequests(args[1:]), SkipErrorNotification: folderSkipNote, Answers: ans}
		}, &resp)
		if err != nil {
			fail(err)
		}
		printOperation(resp)
	},
}

func init() {
	for _, c := range []*cobra.Command{foldersAddCmd, foldersRemoveCmd, foldersUpdateCmd} {
		c.Flags().BoolVar(&folderSkipNote, "quiet", false, "Do not raise error dialogs")
	}
	foldersAddCmd.Flags().IntVar(&folderIndex, "index", -1, "Insert position")
	foldersUpdateCmd.Flags().IntVar(&folderIndex, "index", 0, "Splice position")
	foldersUpdateCmd.Flags().IntVar(&folderDelete, "delete", 0, "Number of folders to delete")

	foldersCmd.AddCommand(foldersAddCmd, foldersRemoveCmd, foldersUpdateCmd)
	rootCmd.AddCommand(foldersCmd)
}
