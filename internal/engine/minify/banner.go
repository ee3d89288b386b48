package minify

import (
	"strings"
	"text/template"
	"time"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// DefaultBanner is used when a minify task does not configure one.
	DefaultBanner = "/*! {{.Project}} {{.Filename}} {{.Timestamp}} */\n"

	// TimestampLayout formats {{.Timestamp}}, e.g. "2026-03-14 9:26:53 PM".
	TimestampLayout = "2006-01-02 3:04:05 PM"
)

// BannerData is the data available to banner templates.
type BannerData struct {
	Project   string
	Filename  string
	Path      string
	Timestamp string
}

// Banner is a parsed banner template.
type Banner struct {
	text string
	tmpl *template.Template
}

// ParseBanner parses text, or DefaultBanner when text is empty.
func ParseBanner(text string) (*Banner, error) {
	if text == "" {
		text = DefaultBanner
	}

	tmpl, err := template.New("banner").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidBanner.Error()), "banner", text)
	}
	return &Banner{text: text, tmpl: tmpl}, nil
}

// Text returns the template source.
func (b *Banner) Text() string {
	return b.text
}

// Render executes the template. A non-empty result always ends in a newline
// so the banner sits on its own line above the minified code.
func (b *Banner) Render(data BannerData) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInvalidBanner.Error()), "banner", b.text)
	}

	out := sb.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// NewBannerData fills BannerData for one job.
func NewBannerData(project string, target domain.TargetRecord, now time.Time) BannerData {
	return BannerData{
		Project:   project,
		Filename:  target.Filename,
		Path:      target.Path,
		Timestamp: now.Format(TimestampLayout),
	}
}
