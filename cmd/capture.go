package cmd

import (
	"fmt"

	"github.com/autoshot/autoshot/cmd/common"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
)

func start(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	var (
		cfg    shotlib.Configuration
		resume = !settingsGiven(ctx)
	)
	if !resume {
		var err error
		cfg, err = buildSettings(ctx, defaultSettings())
		if err != nil {
			common.PrintRuntimeErr(ctx, "start", "settings", err)
			return nil
		}
	}
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "start", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Start(cfg, resume)
	if err != nil {
		common.PrintRuntimeErr(ctx, "start", "start", err)
		return nil
	}
	fmt.Printf("Capturing %s\n", describeConfig(resp.Config))
	fmt.Printf("First cycle: %s\n", describeCycle(resp.Cycle))
	return nil
}

func update(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if !settingsGiven(ctx) {
		common.PrintRuntimeErr(ctx, "update", "settings", errNoSettings)
		return nil
	}
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "update", "new_client", err)
		return nil
	}
	defer client.Close()
	base := defaultSettings()
	st, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "update", "status", err)
		return nil
	}
	if st.Config != nil {
		base = *st.Config
	}
	cfg, err := buildSettings(ctx, base)
	if err != nil {
		common.PrintRuntimeErr(ctx, "update", "settings", err)
		return nil
	}
	resp, err := client.Update(cfg)
	if err != nil {
		common.PrintRuntimeErr(ctx, "update", "update", err)
		return nil
	}
	if resp.Cycle == nil {
		fmt.Printf("Saved settings: %s\n", describeConfig(resp.Config))
		fmt.Println("Capturing is stopped; run \"autoshot start\" to use them.")
		return nil
	}
	fmt.Printf("Capturing %s\n", describeConfig(resp.Config))
	fmt.Printf("Immediate cycle: %s\n", describeCycle(resp.Cycle))
	return nil
}

func stop(ctx *cli.Context) error {
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Stop()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "stop", err)
		return nil
	}
	if resp.WasRunning {
		fmt.Println("Capturing stopped")
	} else {
		fmt.Println("Capturing was not running")
	}
	return nil
}

func status(ctx *cli.Context) error {
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	st, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "status", err)
		return nil
	}
	state := st.State
	if st.Busy {
		state += " (capturing)"
	}
	fmt.Printf("State:      %s\n", state)
	if st.Config != nil {
		fmt.Printf("Settings:   %s\n", describeConfig(*st.Config))
	}
	fmt.Printf("Locked:     %s (source: %s)\n", yesNo(st.Locked), st.LockSource)
	fmt.Printf("Backend:    %s\n", st.Backend)
	fmt.Printf("Next tick:  %s\n", describeNextTick(st.NextTick))
	fmt.Printf("Last cycle: %s\n", describeCycle(st.LastCycle))
	fmt.Printf("Totals:     %s cycles, %s skipped, %s captured, %s failed\n",
		humanize.Comma(int64(st.Cycles)),
		humanize.Comma(int64(st.Skipped)),
		humanize.Comma(int64(st.Captured)),
		humanize.Comma(int64(st.Failures)),
	)
	fmt.Printf("Watchers:   %d\n", st.Watchers)
	return nil
}

func lock(ctx *cli.Context) error {
	return setLocked(ctx, "lock", true)
}

func unlock(ctx *cli.Context) error {
	return setLocked(ctx, "unlock", false)
}

func setLocked(ctx *cli.Context, name string, locked bool) error {
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, name, "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.SetLocked(locked)
	if err != nil {
		common.PrintRuntimeErr(ctx, name, "set_locked", err)
		return nil
	}
	if resp.Locked {
		fmt.Println("Session marked as locked; captures are paused")
	} else {
		fmt.Println("Session marked as unlocked")
	}
	return nil
}
