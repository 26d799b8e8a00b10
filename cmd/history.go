package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/autoshot/autoshot/cmd/common"
	"github.com/autoshot/autoshot/pkg/history"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli"
)

var (
	historyLimit int

	historyFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "limit, n",
			Usage:       "number of cycles to show",
			Value:       history.DefaultLimit,
			Destination: &historyLimit,
		},
	}
)

func listHistory(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.History(historyLimit)
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "get_history", err)
		return nil
	}
	if len(resp.Cycles) == 0 {
		fmt.Println("autoshot: no capture cycles recorded yet")
		return nil
	}
	fmt.Println(renderHistory(resp.Cycles))
	fmt.Printf("%s cycles in total, %s skipped, %s screenshots, %s on disk\n",
		humanize.Comma(int64(resp.Totals.Cycles)),
		humanize.Comma(int64(resp.Totals.Skipped)),
		humanize.Comma(int64(resp.Totals.Captured)),
		humanize.IBytes(uint64(resp.Totals.Bytes)),
	)
	return nil
}

func renderHistory(cycles []shotlib.CycleResult) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Started", "Took", "Outcome", "Files", "Size", "Problems"})
	for _, c := range cycles {
		outcome := "ok"
		switch {
		case c.Skipped:
			outcome = "skipped: " + string(c.SkipReason)
		case c.Failed():
			outcome = "failed"
		}
		var problems []string
		if c.Error != "" {
			problems = append(problems, c.Error)
		}
		for _, f := range c.Failures {
			problems = append(problems, fmt.Sprintf("display %d: %s", f.Display+1, f.Kind))
		}
		size := "-"
		if c.Bytes > 0 {
			size = humanize.IBytes(uint64(c.Bytes))
		}
		t.AppendRow(table.Row{
			c.StartedAt.Format("2006-01-02 15:04:05"),
			c.FinishedAt.Sub(c.StartedAt).Round(time.Millisecond).String(),
			outcome,
			c.Successes,
			size,
			strings.Join(problems, "; "),
		})
	}
	return t.Render()
}
