package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/dialog"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/recent"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

func stateColor(s core.WorkbenchState) *color.Color {
	switch s {
	case core.StateWorkspace:
		return color.New(color.FgGreen)
	case core.StateFolder:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgYellow)
	}
}

func printResult(v interface{}) {
	if output == "json" {
		json.NewEncoder(os.Stdout).Encode(v)
		return
	}
	printTable(v)
}

func printTable(v interface{}) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	switch data := v.(type) {
	case []host.Info:
		if len(data) == 0 {
			fmt.Println("No windows open.")
			return
		}
		fmt.Fprintln(w, headerColor.Sprint("WINDOW ID\tSTATE\tWORKSPACE\tFOLDERS\tOPENED"))
		for _, win := range data {
			ws := "-"
			if win.Identifier != nil {
				ws = win.Identifier.ConfigLocation.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", win.ID, stateColor(win.State).Sprint(win.State), ws, len(win.Folders), win.OpenedAt.Format("2006-01-02 15:04:05"))
		}
	case host.Info:
		fmt.Fprintf(w, "Window ID:\t%s\n", data.ID)
		fmt.Fprintf(w, "State:\t%s\n", stateColor(data.State).Sprint(data.State))
		if data.Identifier != nil {
			kind := "titled"
			if data.Untitled {
				kind = "untitled"
			}
			fmt.Fprintf(w, "Workspace:\t%s %s\n", data.Identifier.ConfigLocation, dimColor.Sprintf("(%s, %s)", kind, data.Identifier.ID))
		}
		if data.RemoteAuthority != "" {
			fmt.Fprintf(w, "Remote:\t%s\n", data.RemoteAuthority)
		}
		for i, f := range data.Folders {
			fmt.Fprintf(w, "Folder %d:\t%s %s\n", i, f.Location, dimColor.Sprintf("(%s)", f.Name))
		}
		if data.Reloads > 0 {
			fmt.Fprintf(w, "Reloads:\t%d\n", data.Reloads)
		}
	case []recent.Entry:
		if len(data) == 0 {
			fmt.Println("No recent workspaces.")
			return
		}
		fmt.Fprintln(w, headerColor.Sprint("LABEL\tPATH\tOPENED"))
		for _, e := range data {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Label, e.Identifier.ConfigLocation, e.OpenedAt.Format("2006-01-02 15:04:05"))
		}
	case []core.TransitionEvent:
		if len(data) == 0 {
			fmt.Println("No transitions recorded.")
			return
		}
		fmt.Fprintln(w, headerColor.Sprint("TIME\tFROM\tTO\tTARGET\tOUTCOME"))
		for _, ev := range data {
			outcome := ev.Outcome
			if ev.Error != "" {
				outcome += ": " + truncate(ev.Error, 40)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ev.Ts.Format("15:04:05"), ev.FromState, ev.ToID, ev.Target, outcome)
		}
	case api.SettingsResponse:
		fmt.Fprintln(w, headerColor.Sprint("KEY\tEFFECTIVE\tLEVEL"))
		for _, k := range sortedKeys(data.Effective) {
			level := "user"
			if _, ok := data.Workspace[k]; ok {
				level = "workspace"
			}
			fmt.Fprintf(w, "%s\t%v\t%s\n", k, data.Effective[k], level)
		}
	default:
		json.NewEncoder(os.Stdout).Encode(v)
	}
	w.Flush()
}

// printOperation prints the window state and any dialogs raised on the way.
func printOperation(resp api.OperationResponse) {
	if output == "json" {
		printResult(resp)
		return
	}
	printNotifications(resp.Notifications)
	if resp.Window != nil {
		printTable(*resp.Window)
	}
}

func printNotifications(ns []dialog.Notification) {
	for _, n := range ns {
		c := infoColor
		switch n.Severity {
		case dialog.SeverityError:
			c = errorColor
		case dialog.SeverityWarning:
			c = warningColor
		}
		fmt.Fprintln(os.Stderr, c.Sprint(strings.ToUpper(string(n.Severity))+": ")+n.Message)
	}
}

func fail(err error) {
	if apiErr, ok := err.(*APIError); ok {
		printNotifications(apiErr.Notifications)
	}
	fmt.Fprintln(os.Stderr, errorColor.Sprint("Error: ")+err.Error())
	os.Exit(1)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
