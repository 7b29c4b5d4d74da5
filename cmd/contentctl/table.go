package main

import (
	"strconv"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    60,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render() + "\n"
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func renderPosts(posts []domain.Post) string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{p.ID, formatTime(p.CreatedAt), p.Title, yesNo(p.ImageURL != "")})
	}
	return renderTable([]string{"ID", "Created", "Title", "Image"}, rows, nil)
}

func renderEpisodes(episodes []domain.EpisodeView) string {
	rows := make([][]string, 0, len(episodes))
	for _, e := range episodes {
		rows = append(rows, []string{strconv.Itoa(e.EpisodeNumber), e.ID, formatTime(e.CreatedAt), e.Title, e.Link})
	}
	return renderTable([]string{"#", "ID", "Created", "Title", "Link"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft})
}

func renderGallery(items []domain.GalleryItem) string {
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{g.ID, formatTime(g.CreatedAt), string(g.Category), g.Title})
	}
	return renderTable([]string{"ID", "Created", "Category", "Title"}, rows, nil)
}

// renderSnapshot one table for whichever collection items belong to
func renderSnapshot(items interface{}) string {
	switch v := items.(type) {
	case []domain.Post:
		return renderPosts(v)
	case []domain.Episode:
		return renderEpisodes(service.NumberEpisodes(v))
	case []domain.EpisodeView:
		return renderEpisodes(v)
	case []domain.GalleryItem:
		return renderGallery(v)
	}
	return ""
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
