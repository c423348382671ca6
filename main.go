package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zeebo/clingy"

	"loov.dev/recordview/render"
)

func main() {
	ok, err := clingy.Environment{
		Name: "recordview",
		Args: os.Args[1:],
	}.Run(context.Background(), func(cmds clingy.Commands) {
		cmds.New("view", "open the timeline of a record in a window", new(cmdView))
		cmds.New("layout", "print the timeline of a record", new(cmdLayout))
		cmds.New("index", "list the nodes of a record with their selectors", new(cmdIndex))
		cmds.New("serve", "serve the host bridge over http", new(cmdServe))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	if !ok || err != nil {
		os.Exit(1)
	}
}

// input is the file argument shared by the commands that render one file.
type input struct {
	format string
	app    string
	path   string
}

func (in *input) setup(params clingy.Parameters) {
	in.format = params.Flag("format", "input format: trulens, jaeger or monkit", string(render.Trulens)).(string)
	in.app = params.Flag("app", "name of the root node, defaults to the one in the input", "").(string)
	in.path = params.Arg("file", "input file").(string)
}

func (in *input) load() (*render.Result, error) {
	return render.LoadFile(in.path, render.Format(in.format), in.app)
}
