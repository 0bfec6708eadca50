package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/dash-protocol/dash-go/pkg/permission"
	"github.com/dash-protocol/dash-go/pkg/transport"
	"github.com/dash-protocol/dash-go/pkg/version"
	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/google/uuid"
)

// console is the interactive management UI.
type console struct {
	store    permission.Store
	receiver *transport.Receiver
	bridge   *loopbackBridge
	rl       *readline.Instance

	// testApp is the identity used by injected requests.
	testApp uuid.UUID
}

func newConsole(store permission.Store, receiver *transport.Receiver, bridge *loopbackBridge) (*console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dash> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &console{
		store:    store,
		receiver: receiver,
		bridge:   bridge,
		rl:       rl,
		testApp:  uuid.New(),
	}, nil
}

// run starts the interactive command loop.
func (c *console) run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "apps", "a":
			c.cmdApps()

		case "grant":
			c.cmdSetPermitted(args, true)

		case "revoke":
			c.cmdSetPermitted(args, false)

		case "send", "s":
			c.cmdSend(args)

		case "spec":
			c.cmdSpec()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Dash Host Commands:
  Permissions:
    apps                       - List known apps with permission state
    grant <n>                  - Permit app number n (from 'apps')
    revoke <n>                 - Revoke app number n

  Test Requests:
    send ping                  - Availability check
    send data <type>           - Request a data value
                                 (battery, operator, signal, wifi,
                                  storage-free, storage-used, sms,
                                  event, event2)
    send get <feature>         - Read a feature state
    send set <feature> <state> - Write a feature state
                                 (wifi, bluetooth, ringer, autosync,
                                  hotspot, brightness; on/off or
                                  loud/vibrate/silent)

  General:
    spec                       - Show the protocol version manifest
    help                       - Show this help
    quit                       - Exit`)
}

func (c *console) cmdApps() {
	ids := c.store.List()
	if len(ids) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No apps seen yet")
		return
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	fmt.Fprintf(c.rl.Stdout(), "\nKnown apps (%d):\n", len(ids))
	for i, id := range ids {
		name, _ := c.store.Name(id)
		if name == "" {
			name = "(unnamed)"
		}
		state := "denied"
		if c.store.IsPermitted(id) {
			state = "permitted"
		}
		fmt.Fprintf(c.rl.Stdout(), "  %d. %s  %s  [%s]\n", i+1, id, name, state)
	}
}

func (c *console) cmdSetPermitted(args []string, permitted bool) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: grant|revoke <n>  (use 'apps' for numbers)")
		return
	}

	n, err := strconv.Atoi(args[0])
	ids := c.store.List()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if err != nil || n < 1 || n > len(ids) {
		fmt.Fprintf(c.rl.Stdout(), "No app number %q\n", args[0])
		return
	}

	id := ids[n-1]
	if err := c.store.SetPermitted(id, permitted); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "OK")
}

var dataTypeNames = map[string]wire.DataType{
	"battery":      wire.DataTypeBatteryPercent,
	"operator":     wire.DataTypeGSMOperatorName,
	"signal":       wire.DataTypeGSMStrength,
	"wifi":         wire.DataTypeWifiNetworkName,
	"storage-used": wire.DataTypeStoragePercentUsed,
	"storage-free": wire.DataTypeStorageFreeGBString,
	"sms":          wire.DataTypeUnreadSMSCount,
	"event":        wire.DataTypeNextCalendarEventOneLine,
	"event2":       wire.DataTypeNextCalendarEventTwoLine,
}

var featureNames = map[string]wire.FeatureType{
	"wifi":       wire.FeatureTypeWifi,
	"bluetooth":  wire.FeatureTypeBluetooth,
	"ringer":     wire.FeatureTypeRinger,
	"autosync":   wire.FeatureTypeAutoSync,
	"hotspot":    wire.FeatureTypeHotSpot,
	"brightness": wire.FeatureTypeAutoBrightness,
}

var stateNames = map[string]wire.FeatureState{
	"on":      wire.FeatureStateOn,
	"off":     wire.FeatureStateOff,
	"loud":    wire.FeatureStateRingerLoud,
	"vibrate": wire.FeatureStateRingerVibrate,
	"silent":  wire.FeatureStateRingerSilent,
}

func (c *console) cmdSend(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: send ping | send data <type> | send get <feature> | send set <feature> <state>")
		return
	}

	req := wire.NewDictionary()
	req.AddInt32(wire.AppKeyUsesDashAPI, 0)
	req.AddString(wire.AppKeyLibraryVersion, version.Current)
	req.AddString(wire.AppKeyAppName, "Console Test App")

	switch args[0] {
	case "ping":
		req.AddInt32(wire.RequestTypeIsAvailable, 0)

	case "data":
		if len(args) < 2 {
			fmt.Fprintln(c.rl.Stdout(), "Usage: send data <type>")
			return
		}
		dt, ok := dataTypeNames[args[1]]
		if !ok {
			fmt.Fprintf(c.rl.Stdout(), "Unknown data type %q\n", args[1])
			return
		}
		req.AddInt32(wire.RequestTypeGetData, 0)
		req.AddInt32(wire.AppKeyDataType, int32(dt))

	case "get":
		if len(args) < 2 {
			fmt.Fprintln(c.rl.Stdout(), "Usage: send get <feature>")
			return
		}
		ft, ok := featureNames[args[1]]
		if !ok {
			fmt.Fprintf(c.rl.Stdout(), "Unknown feature %q\n", args[1])
			return
		}
		req.AddInt32(wire.RequestTypeGetFeature, 0)
		req.AddInt32(wire.AppKeyFeatureType, int32(ft))

	case "set":
		if len(args) < 3 {
			fmt.Fprintln(c.rl.Stdout(), "Usage: send set <feature> <state>")
			return
		}
		ft, ok := featureNames[args[1]]
		if !ok {
			fmt.Fprintf(c.rl.Stdout(), "Unknown feature %q\n", args[1])
			return
		}
		st, ok := stateNames[args[2]]
		if !ok {
			fmt.Fprintf(c.rl.Stdout(), "Unknown state %q\n", args[2])
			return
		}
		req.AddInt32(wire.RequestTypeSetFeature, 0)
		req.AddInt32(wire.AppKeyFeatureType, int32(ft))
		req.AddInt32(wire.AppKeyFeatureState, int32(st))

	default:
		fmt.Fprintf(c.rl.Stdout(), "Unknown request %q\n", args[0])
		return
	}

	raw, err := wire.Encode(req)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Encoding failed: %v\n", err)
		return
	}

	err = c.receiver.Receive(context.Background(), transport.InboundMessage{
		Raw:           raw,
		Sender:        c.testApp,
		TransactionID: c.bridge.transaction(),
	})
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Send failed: %v\n", err)
		return
	}

	// Signal strength holds the response open; everything else is quick.
	select {
	case resp := <-c.bridge.responses:
		c.printResponse(resp.dict)
	case <-time.After(3 * time.Second):
		fmt.Fprintln(c.rl.Stdout(), "No response (suppressed or timed out)")
	}
}

func (c *console) printResponse(d *wire.Dictionary) {
	fmt.Fprintln(c.rl.Stdout(), "\nResponse:")
	for _, key := range d.Keys() {
		if wire.IsRequestType(key) {
			fmt.Fprintf(c.rl.Stdout(), "  [%s]\n", wire.KeyName(key))
			continue
		}
		switch key {
		case wire.AppKeyErrorCode:
			code, _ := d.Int32(key)
			fmt.Fprintf(c.rl.Stdout(), "  %s = %s\n", wire.KeyName(key), wire.ErrorCode(code))
		case wire.AppKeyDataType:
			dt, _ := d.Int32(key)
			fmt.Fprintf(c.rl.Stdout(), "  %s = %s\n", wire.KeyName(key), wire.DataType(dt))
		case wire.AppKeyFeatureType:
			ft, _ := d.Int32(key)
			fmt.Fprintf(c.rl.Stdout(), "  %s = %s\n", wire.KeyName(key), wire.FeatureType(ft))
		case wire.AppKeyFeatureState:
			st, _ := d.Int32(key)
			fmt.Fprintf(c.rl.Stdout(), "  %s = %s\n", wire.KeyName(key), wire.FeatureState(st))
		default:
			if s, ok := d.String(key); ok {
				fmt.Fprintf(c.rl.Stdout(), "  %s = %q\n", wire.KeyName(key), s)
			} else if v, ok := d.Int32(key); ok {
				fmt.Fprintf(c.rl.Stdout(), "  %s = %d\n", wire.KeyName(key), v)
			}
		}
	}
}

func (c *console) cmdSpec() {
	m, err := version.LoadCurrentSpec()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to load manifest: %v\n", err)
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "\nDash API %s: %s\n", m.Version, m.Description)
	fmt.Fprintf(c.rl.Stdout(), "\nData types (%d):\n", len(m.DataTypes))
	for _, d := range m.DataTypes {
		fmt.Fprintf(c.rl.Stdout(), "  %d  %s\n", d.ID, d.Name)
	}
	fmt.Fprintf(c.rl.Stdout(), "\nFeatures (%d):\n", len(m.Features))
	for _, f := range m.Features {
		writable := "read-only"
		if f.Writable {
			writable = "writable"
		}
		fmt.Fprintf(c.rl.Stdout(), "  %d  %s (%s; states: %s)\n",
			f.ID, f.Name, writable, strings.Join(f.States, ", "))
	}
	fmt.Fprintf(c.rl.Stdout(), "\nError codes (%d):\n", len(m.ErrorCodes))
	for _, e := range m.ErrorCodes {
		fmt.Fprintf(c.rl.Stdout(), "  %d  %s\n", e.ID, e.Name)
	}
}
