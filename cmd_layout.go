package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/zeebo/clingy"
	"github.com/zeebo/errs/v2"

	"loov.dev/recordview/termview"
	"loov.dev/recordview/trace"
)

type cmdLayout struct {
	input
	width int
	skip  time.Duration
	color string
}

func (cmd *cmdLayout) Setup(params clingy.Parameters) {
	cmd.width = params.Flag("width", "number of cells of the bars", 60,
		clingy.Short('w'),
		clingy.Transform(strconv.Atoi),
	).(int)
	cmd.skip = params.Flag("skip", "hide bars shorter than this", time.Duration(0),
		clingy.Transform(time.ParseDuration),
	).(time.Duration)
	cmd.color = params.Flag("color", "auto, always or never", "auto").(string)
	cmd.input.setup(params)
}

func (cmd *cmdLayout) Execute(ctx clingy.Context) error {
	result, err := cmd.load()
	if err != nil {
		return err
	}

	opts := termview.Options{
		Width:       cmd.width,
		MinDuration: cmd.skip,
	}
	switch cmd.color {
	case "always":
		opts.Color = true
	case "never":
	case "auto":
		if f, ok := ctx.Stdout().(*os.File); ok {
			opts.Color = termview.IsTerminal(f)
		}
	default:
		return errs.Errorf("unknown color mode %q", cmd.color)
	}

	return termview.Write(ctx.Stdout(), result.Timeline, opts)
}

type cmdIndex struct {
	input
}

func (cmd *cmdIndex) Setup(params clingy.Parameters) { cmd.input.setup(params) }

func (cmd *cmdIndex) Execute(ctx clingy.Context) error {
	result, err := cmd.load()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.Stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSELECTOR\tTIMESTAMP")
	result.Tree.Walk(func(node *trace.Node) bool {
		fmt.Fprintf(w, "%s\t%s\t%s\n", node.ID, trace.Selector(node), node.SelectionValue())
		return true
	})
	return w.Flush()
}
