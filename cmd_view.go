package main

import (
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/zeebo/clingy"

	"loov.dev/recordview/host"
)

type cmdView struct {
	input
}

func (cmd *cmdView) Setup(params clingy.Parameters) { cmd.input.setup(params) }

// Execute opens the window and prints every selected timestamp to stdout.
func (cmd *cmdView) Execute(ctx clingy.Context) error {
	result, err := cmd.load()
	if err != nil {
		return err
	}

	ui := NewUI(result, host.NewWriter(ctx.Stdout()))
	go func() {
		w := app.NewWindow(
			app.Title("Record: "+result.Tree.Root.Class),
			app.Size(unit.Dp(1200), unit.Dp(700)),
		)
		if err := ui.Run(w); err != nil {
			log.Println(err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
