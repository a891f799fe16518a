package main

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Belphemur/NrkDownload/internal/models"
)

var summaryHeaders = table.Row{"#", "Reference", "Program ID", "Title", "Status", "Files", "Size"}

func renderSummary(results []models.ItemResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(summaryHeaders)

	for i, result := range results {
		tw.AppendRow(table.Row{
			i + 1,
			result.Reference,
			result.ProgramID.String(),
			result.Title,
			statusText(result),
			strings.Join(outputFiles(result), "\n"),
			sizeText(result),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func statusText(result models.ItemResult) string {
	switch {
	case result.Err != nil:
		return string(result.Stage) + " failed: " + result.Err.Error()
	case result.SubtitleErr != nil:
		return "partial: " + result.SubtitleErr.Error()
	default:
		return result.Status.String()
	}
}

func outputFiles(result models.ItemResult) []string {
	var files []string
	for _, file := range []string{result.MediaFile, result.SubtitleFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

func sizeText(result models.ItemResult) string {
	if result.BytesWritten == 0 {
		return ""
	}
	return humanize.Bytes(uint64(result.BytesWritten))
}
