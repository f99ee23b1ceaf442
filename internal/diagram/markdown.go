package diagram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/gunkustom/GunKustom-docs-internal/internal/metrics"
)

// InfoString marks a fenced code block whose body is a diagram locator:
//
//	```drawio
//	/diagrams/architecture.drawio
//	```
const InfoString = "drawio"

// KindBlock is the AST kind of a diagram block.
var KindBlock = ast.NewNodeKind("DiagramBlock")

// Block is a diagram embedded in a Markdown document.
type Block struct {
	ast.BaseBlock
	Locator string
}

func (b *Block) Kind() ast.NodeKind { return KindBlock }

func (b *Block) Dump(source []byte, level int) {
	ast.DumpHelper(b, source, level, map[string]string{"Locator": b.Locator}, nil)
}

type blockTransformer struct{}

func (blockTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var found []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok && string(fcb.Language(source)) == InfoString {
			found = append(found, fcb)
		}
		return ast.WalkContinue, nil
	})

	for _, fcb := range found {
		var b strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		locator := strings.TrimSpace(b.String())
		if locator == "" {
			continue
		}
		parent := fcb.Parent()
		parent.ReplaceChild(parent, fcb, &Block{Locator: locator})
	}
}

type blockRenderer struct {
	ext *Extension
}

func (r *blockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindBlock, r.renderBlock)
}

func (r *blockRenderer) renderBlock(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := n.(*Block)

	ctx := context.Background()
	if r.ext.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.ext.Timeout)
		defer cancel()
	}

	viewer := NewViewer(r.ext.Fetcher, WithLogger(r.ext.logger()), WithRecorder(r.ext.recorder()))
	viewer.Mount(ctx, block.Locator)
	_ = viewer.Wait(ctx)
	defer viewer.Unmount()

	if err := viewer.Render().Render(w); err != nil {
		return ast.WalkStop, err
	}
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

// Extension renders diagram blocks at build time through a Viewer.
type Extension struct {
	Fetcher  Fetcher
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Timeout bounds each build-time fetch; zero leaves it to the fetcher.
	Timeout time.Duration
}

func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(blockTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&blockRenderer{ext: e}, 100),
	))
}

func (e *Extension) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Extension) recorder() metrics.Recorder {
	if e.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return e.Recorder
}
