package main

import (
	"flag"
	"fmt"
	"strings"

	"royal-odds/internal/lookup"
	"royal-odds/pkg/logger"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "", "CSV written by simulate, e.g. 3_postflop.csv")
	flag.Parse()
	if path == "" {
		path = flag.Arg(0)
	}

	logger.InitLogger("release")
	defer logger.Log.Sync()

	if path == "" {
		pterm.Fatal.Println("usage: lookup -file <players>_<mode>.csv")
	}
	table, err := lookup.Load(path)
	if err != nil {
		logger.Log.Fatal("Failed to load odds file", zap.String("path", path), zap.Error(err))
	}
	pterm.Info.Printfln("Loaded %s", path)

	prompt := fmt.Sprintf("Enter %d ranks from A K Q J T (q to quit)", table.KeyLength())
	for {
		input, err := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "q") {
			return
		}

		row, key, ok, err := table.Find(input)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if !ok {
			pterm.Warning.Println(lookup.NotFound(key))
			continue
		}
		lines := lookup.Describe(row)
		pterm.DefaultBox.WithTitle(lines[0]).Println(strings.Join(lines[1:], "\n"))
	}
}
