package skema

import (
	"errors"
	"io"
	"strconv"

	"github.com/reoring/skema/i18n"
	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/source/gojson"
	"github.com/reoring/skema/source/yamlsrc"
	"github.com/reoring/skema/value"
)

// toIssues maps a decode failure onto the Issue model. offset is the byte
// position reached in the input, or -1.
func toIssues(err error, offset int64) Issues {
	var (
		ie    eng.IssueError
		se    *ShapeError
		te    *value.TypeError
		de    *DepthError
		ydup  *yamlsrc.DuplicateKeyError
		ydep  *yamlsrc.DepthError
		yscal *yamlsrc.ScalarError
		yexp  *yamlsrc.ExpansionError
		syn   *gojson.SyntaxError
	)
	switch {
	case errors.As(err, &ie):
		data := map[string]string{}
		switch ie.Code {
		case eng.CodeDuplicateKey:
			data["key"] = strconv.Quote(lastToken(ie.Path))
		case eng.CodeTruncated:
			data["max"] = strconv.FormatInt(ie.Limit, 10)
		}
		msg := i18n.T(ie.Code, data)
		if ie.Code == eng.CodeParseError {
			msg += ": " + ie.Message
		}
		return Issues{{Path: pointer(ie.Path), Code: ie.Code, Message: msg, Cause: err, Offset: offset}}
	case errors.As(err, &se):
		path, inner := se.Innermost()
		return Issues{{
			Path:    pointer(path),
			Code:    CodeUnsupportedShape,
			Message: i18n.T(CodeUnsupportedShape, map[string]string{"attempts": strconv.Itoa(len(se.Attempts))}),
			Hint:    inner.Error(),
			Cause:   err,
			Offset:  offset,
		}}
	case errors.As(err, &te):
		return Issues{{
			Path:    pointer(te.Path),
			Code:    CodeInvalidType,
			Message: i18n.T(CodeInvalidType, map[string]string{"expected": te.Expected.String()}),
			Cause:   err,
			Offset:  offset,
		}}
	case errors.As(err, &de):
		return Issues{parseIssue(de.Path, err, offset)}
	case errors.As(err, &ydup):
		return Issues{{
			Path:    pointer(ydup.Path),
			Code:    CodeDuplicateKey,
			Message: i18n.T(CodeDuplicateKey, map[string]string{"key": strconv.Quote(ydup.Key)}),
			Hint:    ydup.Error(),
			Cause:   err,
			Offset:  offset,
		}}
	case errors.As(err, &ydep):
		return Issues{parseIssue(ydep.Path, err, offset)}
	case errors.As(err, &yscal):
		return Issues{parseIssue(yscal.Path, err, offset)}
	case errors.As(err, &yexp):
		return Issues{parseIssue(yexp.Path, err, offset)}
	case errors.As(err, &syn):
		return Issues{parseIssue("", err, syn.Offset)}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil) + ": unexpected end of input", Cause: err, Offset: offset}}
	}
	return Issues{parseIssue("", err, offset)}
}

func parseIssue(path string, err error, offset int64) Issue {
	return Issue{
		Path:    pointer(path),
		Code:    CodeParseError,
		Message: i18n.T(CodeParseError, nil) + ": " + err.Error(),
		Cause:   err,
		Offset:  offset,
	}
}

func truncatedIssue(max, got int64) Issue {
	return Issue{
		Path:    "/",
		Code:    CodeTruncated,
		Message: i18n.T(CodeTruncated, map[string]string{"max": strconv.FormatInt(max, 10)}),
		Offset:  got,
	}
}

func pointer(p string) string { return eng.NormalizePointer(p) }

func lastToken(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return unescapeToken(p[i+1:])
		}
	}
	return p
}

func unescapeToken(t string) string {
	out := make([]byte, 0, len(t))
	for i := 0; i < len(t); i++ {
		if t[i] == '~' && i+1 < len(t) {
			switch t[i+1] {
			case '1':
				out = append(out, '/')
				i++
				continue
			case '0':
				out = append(out, '~')
				i++
				continue
			}
		}
		out = append(out, t[i])
	}
	return string(out)
}
