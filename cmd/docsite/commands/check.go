package commands

import (
	"fmt"
	"os"

	"github.com/elizaos/docsite/internal/content"
	"github.com/elizaos/docsite/internal/linkcheck"
	"github.com/elizaos/docsite/internal/markdown"
)

// CheckCmd implements the 'check' command: a dry run over the content set
// that validates frontmatter and internal links without writing any output.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	corpus, err := content.NewSource(cfg.Content).Scan()
	if err != nil {
		return err
	}

	failures := 0
	for _, p := range corpus.Problems {
		fmt.Fprintf(os.Stderr, "%s\n", p.String())
		failures++
	}

	renderer, err := markdown.NewRenderer(markdown.NewOptions(cfg.Markdown))
	if err != nil {
		return err
	}

	checker := linkcheck.NewChecker(corpus, cfg.Content.BasePath)
	for i := range corpus.Pages {
		p := &corpus.Pages[i]
		html, err := renderer.Render(p.Body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: render failed: %v\n", p.RelPath, err)
			failures++
			continue
		}
		checker.AddDocument(p.Route, html)
	}
	for _, issue := range checker.Check(corpus) {
		fmt.Fprintf(os.Stderr, "%s\n", issue.String())
		failures++
	}

	if failures > 0 {
		return fmt.Errorf("check found %d problems in %d pages", failures, len(corpus.Pages))
	}
	fmt.Printf("Checked %d pages: no problems\n", len(corpus.Pages))
	return nil
}
