package cmd

import (
	"fmt"
	"sync"
	"time"

	cmdCommon "github.com/autoshot/autoshot/cmd/common"
	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotcli"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

var (
	watchSkipped     bool
	watchNoCountdown bool

	watchFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "skipped, s",
			Usage:       "also show cycles that were skipped (default: false)",
			Destination: &watchSkipped,
		},
		cli.BoolFlag{
			Name:        "no-countdown",
			Usage:       "do not draw the countdown bar (default: false)",
			Destination: &watchNoCountdown,
		},
	}
)

func watch(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "new_client", err)
		return nil
	}
	defer client.Close()
	client.CheckVersionMismatch(currentBuildArgs.Version)
	st, err := client.Attach()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "attach", err)
		return nil
	}
	fmt.Printf("State: %s, locked: %s\n", st.State, yesNo(st.Locked))
	if st.Config != nil {
		fmt.Printf("Settings: %s\n", describeConfig(*st.Config))
	}
	fmt.Println(">> Watching capture cycles, press Ctrl+C to quit <<")

	var cd *countdown
	if !watchNoCountdown {
		cd = newCountdown(mpb.New(mpb.WithWidth(64), mpb.WithRefreshRate(time.Second/4)))
		defer cd.stop()
		if st.NextTick != nil {
			cd.reset(*st.NextTick)
		}
	}
	var interval time.Duration
	if st.Config != nil {
		interval = st.Config.Interval()
	}
	client.AddHandler(common.UPDATE_CYCLE, shotcli.NewCycleHandler(watchSkipped, func(res *shotlib.CycleResult) error {
		if cd != nil {
			cd.clear()
		}
		fmt.Println(describeCycle(res))
		if cd != nil && interval > 0 {
			cd.reset(res.StartedAt.Add(interval))
		}
		return nil
	}))
	if err = client.Listen(); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "listen", err)
	}
	return nil
}

// countdown shows a bar that fills up until the next expected tick.
type countdown struct {
	mu   sync.Mutex
	p    *mpb.Progress
	bar  *mpb.Bar
	from time.Time
	quit chan struct{}
	once sync.Once
}

func newCountdown(p *mpb.Progress) *countdown {
	c := &countdown{p: p, quit: make(chan struct{})}
	go c.run()
	return c
}

func (c *countdown) run() {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.quit:
			return
		case <-t.C:
			c.mu.Lock()
			if c.bar != nil {
				c.bar.SetCurrent(int64(time.Since(c.from) / time.Second))
			}
			c.mu.Unlock()
		}
	}
}

func (c *countdown) reset(next time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abortLocked()
	wait := time.Until(next)
	if wait <= 0 {
		return
	}
	c.from = time.Now()
	c.bar = cmdCommon.NewCountdownBar(c.p, "", wait)
}

func (c *countdown) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abortLocked()
}

func (c *countdown) abortLocked() {
	if c.bar == nil {
		return
	}
	c.bar.Abort(true)
	c.bar.Wait()
	c.bar = nil
}

func (c *countdown) stop() {
	c.once.Do(func() {
		close(c.quit)
		c.clear()
		c.p.Wait()
	})
}
