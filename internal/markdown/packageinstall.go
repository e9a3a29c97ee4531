package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/util"
)

// packageInstallLang is the fenced-block language that triggers tabbed
// install snippet generation instead of highlighting.
const packageInstallLang = "package-install"

// installCommand renders the install command for one package manager. A
// leading "-D" in the block marks a dev dependency.
func installCommand(manager string, packages []string, dev bool) string {
	var cmd string
	switch manager {
	case "npm":
		cmd = "npm install"
	case "pnpm":
		cmd = "pnpm add"
	case "yarn":
		cmd = "yarn add"
	case "bun":
		cmd = "bun add"
	default:
		cmd = manager + " add"
	}
	if dev {
		cmd += " -D"
	}
	if len(packages) == 0 {
		return cmd
	}
	return cmd + " " + strings.Join(packages, " ")
}

// writePackageInstall turns a package-install block body (package names, one
// or many, optionally prefixed with -D) into a tab group covering every
// configured package manager. All groups share the configured group
// identifier so the reader's choice persists across snippets.
func (r *codeRenderer) writePackageInstall(w io.Writer, body string) error {
	fields := strings.Fields(body)
	dev := false
	packages := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "-D" || f == "--save-dev" {
			dev = true
			continue
		}
		packages = append(packages, f)
	}

	if _, err := fmt.Fprintf(w, "<div class=\"install-tabs\" data-group=%q>", r.opts.InstallGroupID); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<div class=\"install-tab-list\" role=\"tablist\">"); err != nil {
		return err
	}
	for i, pm := range r.opts.PackageManagers {
		selected := "false"
		if i == 0 {
			selected = "true"
		}
		if _, err := fmt.Fprintf(w, "<button class=\"install-tab\" role=\"tab\" aria-selected=%q data-value=%q>%s</button>", selected, pm, escape(pm)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</div>"); err != nil {
		return err
	}

	for i, pm := range r.opts.PackageManagers {
		hidden := ""
		if i != 0 {
			hidden = " hidden"
		}
		cmd := installCommand(pm, packages, dev)
		if _, err := fmt.Fprintf(w, "<div class=\"install-panel\" role=\"tabpanel\" data-value=%q%s><pre><code>%s</code></pre></div>", pm, hidden, escape(cmd)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</div>")
	return err
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
