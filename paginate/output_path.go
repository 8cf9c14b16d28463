package paginate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"pager/config"
	"pager/editor"
	"pager/state"
)

// buildOutputPath returns output file path for the source name. Name is
// produced by configured template, then cleaned and optionally
// transliterated. Source name is used when template fails.
func buildOutputPath(src, dst string, env *state.LocalEnv) string {
	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)
	if format := env.Cfg.Output.FileNameFormat; len(format) > 0 {
		name, err := expandTemplate(config.FileNameFormatFieldName, format, src)
		switch {
		case err != nil:
			env.Log.Warn("Unable to prepare output file name", zap.String("source", src), zap.Error(err))
		case len(name) == 0:
			env.Log.Warn("Output file name template produced nothing", zap.String("source", src))
		default:
			base = name
		}
	}
	if env.Cfg.Output.FileNameTransliterate {
		base = slug.Make(base)
	}
	return filepath.Join(dst, config.CleanFileName(base)+strings.ToLower(ext))
}

// dump produces pagination report entry for the session.
func dump(s *editor.Session) []byte {
	var sb strings.Builder
	st := s.Stats()
	fmt.Fprintf(&sb, "pages: %d\ncycles: %d\npasses: %d\ntransforms: %d\nconverged: %t\n\n",
		st.Pages, st.Cycles, st.Passes, st.Transforms, s.Converged())
	sb.WriteString(s.Doc().String())
	return []byte(sb.String())
}
