package server

import (
	"context"
	"embed"
	"io"
	"io/fs"

	"github.com/a-h/templ"

	"github.com/conneroisu/termfolio/internal/display"
)

//go:embed static
var staticFS embed.FS

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageData is what the terminal page needs to render.
type PageData struct {
	Title  string
	Theme  string
	Prompt display.Prompt
}

// Page renders the terminal page shell. Output arrives over the WebSocket.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>`+
			`<html lang="en" class="theme-`+templ.EscapeString(data.Theme)+`">`+
			`<head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(data.Title)+`</title>`+
			`<link rel="stylesheet" href="/static/terminal.css">`+
			`</head><body><main class="terminal">`+
			`<div class="output" aria-live="polite"></div>`+
			`<div class="input-line">`+
			`<label for="command-input" class="prompt no-select">`+
			`<span class="accent">`+templ.EscapeString(data.Prompt.User)+`</span>@`+
			`<span class="link">`+templ.EscapeString(data.Prompt.Host)+`</span>:~$</label>`+
			`<input id="command-input" type="text" autocomplete="off" autocapitalize="off" spellcheck="false" aria-label="command">`+
			`</div></main>`+
			`<script src="/static/terminal.js" defer></script>`+
			`</body></html>`)
		return err
	})
}
