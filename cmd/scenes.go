package cmd

import (
	"bytes"

	"github.com/banga/craytracer-sub000/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	logger.Noticef("built-in scenes\n%s", sceneTable(scene.List()))
	return nil
}

func sceneTable(infos []scene.SceneInfo) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Name", "Description"})
	for _, info := range infos {
		table.Append([]string{info.Name, info.Description})
	}
	table.Render()
	return buf.String()
}
