package marksnap

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-marksnap/internal/assets"
	"github.com/alnah/go-marksnap/internal/pipeline"
)

// Surface is one rendered segment: a standalone HTML page sized by its canvas.
type Surface struct {
	Index    int         // 0-based position in the document
	Total    int         // number of segments in the document
	Markdown string      // source segment
	Title    string      // first level-one heading, or "Segment N"
	HTML     string      // complete page, CSS included
	Width    CanvasWidth // resolved canvas width
}

// RenderOptions controls how segments are turned into surfaces.
type RenderOptions struct {
	Mode        CanvasMode
	CustomWidth int
	Theme       ThemeConfig
	SourceDir   string // base for relative image paths, empty to skip rewriting
}

// Renderer turns markdown segments into surfaces.
// Each segment is rendered independently; no state is shared between them.
type Renderer struct {
	preprocessor    pipeline.MarkdownPreprocessor
	htmlConverter   pipeline.HTMLConverter
	cssInjector     pipeline.CSSInjector
	surfaceInjector pipeline.SurfaceInjector
	baseCSS         string
	highlightCSS    string
}

// NewRenderer creates a Renderer whose base stylesheet and surface template
// come from loader. A nil loader uses the embedded assets.
func NewRenderer(loader assets.AssetLoader) (*Renderer, error) {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	baseCSS, err := loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return nil, convertAssetError(err)
	}

	tmpl, err := loader.LoadTemplate(assets.SurfaceTemplateName)
	if err != nil {
		return nil, convertAssetError(err)
	}
	surfaceInjector, err := pipeline.NewSurfaceInjection(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceTemplate, err)
	}

	highlightCSS, err := pipeline.HighlightCSS(pipeline.DefaultHighlightStyle)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		preprocessor:    &pipeline.CommonMarkPreprocessor{},
		htmlConverter:   pipeline.NewGoldmarkConverter(),
		cssInjector:     &pipeline.CSSInjection{},
		surfaceInjector: surfaceInjector,
		baseCSS:         baseCSS,
		highlightCSS:    highlightCSS,
	}, nil
}

// Render renders every segment, in order.
func (r *Renderer) Render(ctx context.Context, segments []string, opts RenderOptions) ([]*Surface, error) {
	surfaces := make([]*Surface, 0, len(segments))
	for i, seg := range segments {
		s, err := r.RenderSegment(ctx, i, len(segments), seg, opts)
		if err != nil {
			return nil, fmt.Errorf("rendering segment %d: %w", i+1, err)
		}
		surfaces = append(surfaces, s)
	}
	return surfaces, nil
}

// RenderSegment renders a single segment at position index of total.
func (r *Renderer) RenderSegment(ctx context.Context, index, total int, segment string, opts RenderOptions) (*Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	md := r.preprocessor.PreprocessMarkdown(ctx, segment)

	body, err := r.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	if opts.SourceDir != "" {
		body, err = pipeline.RewriteImagePaths(body, opts.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting image paths: %w", err)
		}
	}

	width := ResolveWidth(opts.Mode, opts.CustomWidth)
	title := segmentTitle(segment, index)

	page, err := r.surfaceInjector.InjectSurface(ctx, &pipeline.SurfaceData{
		Title:          title,
		Index:          index + 1,
		Total:          total,
		ContainerStyle: width.Style(),
		Body:           body,
	})
	if err != nil {
		return nil, err
	}

	page = r.cssInjector.InjectCSS(ctx, page, r.stylesheet(opts.Theme))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Surface{
		Index:    index,
		Total:    total,
		Markdown: segment,
		Title:    title,
		HTML:     page,
		Width:    width,
	}, nil
}

// stylesheet combines layout, highlighting and theme CSS.
// The theme comes last so it can override everything else.
func (r *Renderer) stylesheet(theme ThemeConfig) string {
	var sb strings.Builder
	sb.WriteString(r.baseCSS)
	sb.WriteString("\n")
	sb.WriteString(r.highlightCSS)
	sb.WriteString("\n")
	sb.WriteString(ResolveThemeCSS(theme))
	return sb.String()
}

func segmentTitle(segment string, index int) string {
	if heading, ok := pipeline.FirstHeading(segment); ok {
		return heading
	}
	return fmt.Sprintf("Segment %d", index+1)
}
