package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-docforge/internal/assets"
	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/pipeline"
)

// PDF page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.5
)

// ChromiumAvailable reports whether a Chrome/Chromium binary can be
// located without launching anything. Side-effect free: rod's automatic
// browser download is never triggered by probing.
func ChromiumAvailable() bool {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if _, err := os.Stat(bin); err == nil {
			return true
		}
	}
	_, found := launcher.LookPath()
	return found
}

// Chromium renders Markdown through HTML into PDF using headless Chrome
// print-to-PDF via go-rod. The browser is connected lazily on first
// render and reused until Close.
type Chromium struct {
	browser *rod.Browser
	timeout time.Duration
	conv    *pipeline.GoldmarkConverter
	css     string
}

// NewChromium creates a Chromium engine with the given per-render
// timeout and the default document print style.
func NewChromium(timeout time.Duration) *Chromium {
	css, err := assets.ReadStyle("document")
	if err != nil {
		css = "" // render unstyled rather than fail
	}
	return &Chromium{timeout: timeout, conv: pipeline.NewGoldmarkConverter(), css: css}
}

func (c *Chromium) Name() string { return NameChromium }

// ensureBrowser lazily launches and connects to the browser.
func (c *Chromium) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.browser = rod.New().ControlURL(u)
	if err := c.browser.Connect(); err != nil {
		c.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Render converts the job's Markdown to styled HTML, prints it to PDF
// in headless Chrome, and writes the artifact atomically.
func (c *Chromium) Render(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	htmlContent, err := c.conv.ToHTML(ctx, job.Title, job.Markdown)
	if err != nil {
		return err
	}
	htmlContent = pipeline.InjectCSS(htmlContent, c.css)

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	pdfBytes, err := c.printToPDF(ctx, tmpPath)
	if err != nil {
		return err
	}

	return fileutil.WriteFileAtomic(job.OutputPath, pdfBytes)
}

// printToPDF opens a local HTML file and prints it to PDF bytes.
func (c *Chromium) printToPDF(ctx context.Context, filePath string) ([]byte, error) {
	if err := c.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrRenderFailed, err)
	}

	return pdfBuf, nil
}

// Close releases browser resources.
func (c *Chromium) Close() error {
	if c.browser != nil {
		err := c.browser.Close()
		c.browser = nil
		return err
	}
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
