// Command dash-log views and analyzes Dash protocol log files.
//
// Log files are created by dash-host when run with the -protocol-log flag.
//
// Usage:
//
//	dash-log <command> [flags] <file.dlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	dash-log view host.dlog
//
//	# View only outgoing messages
//	dash-log view -direction out host.dlog
//
//	# View one app's traffic
//	dash-log view -app 6bbf0b5c-... host.dlog
//
//	# Show statistics
//	dash-log stats host.dlog
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dash-protocol/dash-go/pkg/log"
	"github.com/dash-protocol/dash-go/pkg/wire"
)

const usage = `dash-log - Dash Protocol Log Analyzer

Usage:
  dash-log <command> [flags] <file.dlog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "dash-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	app := fs.String("app", "", "Show only this app ID")
	direction := fs.String("direction", "", "Show only this direction: in, out")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dash-log view [flags] <file.dlog>")
		os.Exit(1)
	}

	filter := log.Filter{AppID: *app}
	switch strings.ToLower(*direction) {
	case "":
	case "in":
		d := log.DirectionIn
		filter.Direction = &d
	case "out":
		d := log.DirectionOut
		filter.Direction = &d
	default:
		fmt.Fprintf(os.Stderr, "Invalid direction %q (want in or out)\n", *direction)
		os.Exit(1)
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read log: %v\n", err)
		os.Exit(1)
	}

	for _, ev := range events {
		printEvent(ev)
	}
	fmt.Printf("\n%d events\n", len(events))
}

func printEvent(ev log.Event) {
	ts := ev.Timestamp.Format("15:04:05.000")
	app := ev.AppID
	if len(app) > 8 {
		app = app[:8]
	}

	switch ev.Category {
	case log.CategoryMessage:
		var detail string
		if msg := ev.Message; msg != nil {
			names := make([]string, 0, len(msg.Markers))
			for _, m := range msg.Markers {
				names = append(names, wire.KeyName(m))
			}
			detail = fmt.Sprintf("%s entries=%d", strings.Join(names, "+"), msg.Entries)
			if msg.ErrorCode != nil {
				detail += fmt.Sprintf(" error=%s", *msg.ErrorCode)
			}
			if msg.ProcessingTime != nil {
				detail += fmt.Sprintf(" took=%s", msg.ProcessingTime.Round(time.Microsecond))
			}
		}
		fmt.Printf("%s %-3s [%s] %s\n", ts, ev.Direction, app, detail)

	case log.CategoryDrop:
		reason := ""
		if ev.Drop != nil {
			reason = ev.Drop.Reason
		}
		fmt.Printf("%s %-3s [%s] DROP %s\n", ts, ev.Direction, app, reason)

	case log.CategoryNotification:
		feature := ""
		if ev.Notification != nil {
			feature = wire.FeatureType(ev.Notification.Feature).String()
		}
		fmt.Printf("%s %-3s [%s] NOTIFY permission requested (feature %s)\n", ts, ev.Direction, app, feature)

	case log.CategoryError:
		msg := ""
		if ev.Error != nil {
			msg = ev.Error.Message
		}
		fmt.Printf("%s %-3s [%s] ERROR %s\n", ts, ev.Direction, app, msg)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dash-log stats <file.dlog>")
		os.Exit(1)
	}

	reader, err := log.NewReader(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read log: %v\n", err)
		os.Exit(1)
	}

	var in, out, drops, notifications, errors int
	apps := map[string]int{}
	codes := map[wire.ErrorCode]int{}
	var totalProcessing time.Duration
	var processed int

	for _, ev := range events {
		if ev.AppID != "" {
			apps[ev.AppID]++
		}
		switch ev.Category {
		case log.CategoryMessage:
			if ev.Direction == log.DirectionIn {
				in++
			} else {
				out++
			}
			if msg := ev.Message; msg != nil {
				if msg.ErrorCode != nil {
					codes[*msg.ErrorCode]++
				}
				if msg.ProcessingTime != nil {
					totalProcessing += *msg.ProcessingTime
					processed++
				}
			}
		case log.CategoryDrop:
			drops++
		case log.CategoryNotification:
			notifications++
		case log.CategoryError:
			errors++
		}
	}

	fmt.Printf("Events:        %d\n", len(events))
	fmt.Printf("Messages:      %d in, %d out\n", in, out)
	fmt.Printf("Drops:         %d\n", drops)
	fmt.Printf("Notifications: %d\n", notifications)
	fmt.Printf("Errors:        %d\n", errors)
	fmt.Printf("Apps:          %d\n", len(apps))
	if processed > 0 {
		fmt.Printf("Avg response:  %s\n", (totalProcessing / time.Duration(processed)).Round(time.Microsecond))
	}
	if len(codes) > 0 {
		fmt.Println("Response codes:")
		for code, n := range codes {
			fmt.Printf("  %-14s %d\n", code, n)
		}
	}

	if len(events) > 0 {
		first := events[0].Timestamp
		last := events[len(events)-1].Timestamp
		fmt.Printf("Time span:     %s to %s (%s)\n",
			first.Format(time.RFC3339), last.Format(time.RFC3339),
			last.Sub(first).Round(time.Millisecond))
	}
}
