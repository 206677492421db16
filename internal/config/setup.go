package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// resetValue, entered at a prompt, clears a saved value back to its default.
const resetValue = "-"

// RunSetup runs the interactive setup wizard on in/out and returns the
// resulting config. If existing is non-nil, it is used as the default for
// each prompt (edit mode). The caller saves the result.
func RunSetup(existing *Config, in io.Reader, out io.Writer) (*Config, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		return strings.ToLower(ans) == "y" || strings.ToLower(ans) == "yes", nil
	}

	cfg := Defaults()
	if existing != nil {
		cfg = Merge(existing, nil)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │   promptperfect — setup         │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out)

	var err error

	prompt := "  Rephrase service URL (blank for http://localhost:8080)"
	if cfg.APIURL != "" {
		prompt = "  Rephrase service URL (" + resetValue + " for http://localhost:8080)"
	}
	cfg.APIURL, err = ask(prompt, cfg.APIURL)
	if err != nil {
		return nil, err
	}
	if cfg.APIURL == resetValue {
		cfg.APIURL = ""
	}

	store, err := ask("  Storage backend (file/sqlite)", cfg.Store)
	if err != nil {
		return nil, err
	}
	if store == "sqlite" {
		cfg.Store = "sqlite"
	} else {
		cfg.Store = "file"
	}

	clip, err := ask("  Clipboard (system/osc52, osc52 works over SSH)", cfg.Clipboard)
	if err != nil {
		return nil, err
	}
	if clip == "osc52" {
		cfg.Clipboard = "osc52"
	} else {
		cfg.Clipboard = "system"
	}

	render, err := askBool("  Render results as markdown", cfg.Markdown())
	if err != nil {
		return nil, err
	}
	cfg.RenderMarkdown = &render

	fmt.Fprintln(out)
	return &cfg, nil
}
