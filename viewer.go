package bdoc

import (
	"context"
	_ "embed"
	"strings"

	"github.com/google/uuid"
)

// Embedded viewer assets. The HTML template carries $$JAVASCRIPT$$ and
// $$JSONDATA$$ placeholders plus STARTDIV/ENDDIV markers delimiting the
// fragment used in notebook mode.
var (
	//go:embed htmlviewer/ann-viewer.html
	viewerTemplate string

	//go:embed htmlviewer/ann-viewer.js
	viewerScript string
)

const (
	jsJQueryTag = `<script src="https://ajax.googleapis.com/ajax/libs/jquery/3.5.1/jquery.min.js"></script>`
	jsViewerTag = `<script src="https://unpkg.com/gatenlp-ann-viewer@1.0.5/gatenlp-ann-viewer.js"></script>`

	viewerStartMarker = "<!--STARTDIV-->"
	viewerEndMarker   = "<!--ENDDIV-->"
	viewerIDPrefix    = "BDOCVIEW-"
)

// randomViewerPrefix returns a fresh element id prefix so several notebook
// fragments can coexist in one page.
func randomViewerPrefix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10] + "-"
}

// saveHTMLViewer renders the document into a self-contained HTML page (or
// fragment) embedding the annotation viewer. Offsets are converted to
// UTF-16 units so they line up with JavaScript string indexing.
func saveHTMLViewer(ctx context.Context, doc *Document, dst *destination, o *options) error {
	jdst := &destination{}
	if err := saveJSON(ctx, doc, jdst, &options{offsetType: OffsetJava}); err != nil {
		return err
	}

	page := viewerTemplate
	if o.notebook {
		i := strings.Index(page, viewerStartMarker)
		j := strings.Index(page, viewerEndMarker)
		if i < 0 || j < 0 || j < i {
			return newStreamError(ErrCorruptStream, "viewer template markers missing", nil)
		}
		page = page[i+len(viewerStartMarker) : j]
		page = strings.ReplaceAll(page, viewerIDPrefix, randomViewerPrefix())
	}

	var script string
	if o.offline {
		script = `<script type="text/javascript">` + viewerScript + `</script>`
	} else {
		script = jsJQueryTag + jsViewerTag
	}
	page = strings.Replace(page, "$$JAVASCRIPT$$", script, 1)
	page = strings.Replace(page, "$$JSONDATA$$", jdst.buf.String(), 1)

	return dst.writeAll([]byte(page), o.gzip)
}
