package htmlcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// impliedEnd lists elements whose end tag may be omitted.
var impliedEnd = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true,
	"dt": true, "dd": true, "option": true, "optgroup": true, "tr": true,
	"td": true, "th": true, "thead": true, "tbody": true, "tfoot": true,
	"colgroup": true, "rb": true, "rt": true, "rtc": true, "rp": true,
}

// Local checks well-formedness with the x/net/html tokenizer: every
// non-void element must be closed, and end tags must match an open element.
// Custom elements and framework attribute syntax such as [prop] or (event)
// are accepted.
type Local struct{}

type openTag struct {
	name string
	line int
}

func (Local) Validate(ctx context.Context, doc string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		msgs  []Message
		stack []openTag
		line  = 1
	)
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("tokenize: %w", err)
			}
			break
		}
		tokLine := line
		line += strings.Count(string(z.Raw()), "\n")

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); !voidElements[tag] {
				stack = append(stack, openTag{name: tag, line: tokLine})
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if tag := string(name); !voidElements[tag] {
				msgs = append(msgs, Message{
					Severity: SeverityWarning,
					Line:     tokLine,
					Text:     fmt.Sprintf("self-closing syntax on non-void element <%s/>", tag),
				})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				msgs = append(msgs, Message{
					Severity: SeverityError,
					Line:     tokLine,
					Text:     fmt.Sprintf("end tag for void element </%s>", tag),
				})
				continue
			}
			rest, unclosed, ok := closeTag(stack, tag)
			if !ok {
				msgs = append(msgs, Message{
					Severity: SeverityError,
					Line:     tokLine,
					Text:     fmt.Sprintf("unexpected end tag </%s>", tag),
				})
				continue
			}
			stack = rest
			for _, o := range unclosed {
				msgs = append(msgs, Message{
					Severity: SeverityError,
					Line:     o.line,
					Text:     fmt.Sprintf("element <%s> not closed before </%s>", o.name, tag),
				})
			}
		}
	}

	for _, o := range stack {
		if !impliedEnd[o.name] {
			msgs = append(msgs, Message{
				Severity: SeverityError,
				Line:     o.line,
				Text:     fmt.Sprintf("unclosed element <%s>", o.name),
			})
		}
	}
	return newResult(msgs), nil
}

// closeTag pops the stack up to and including the innermost element named
// tag. It returns the elements closed along the way whose end tag may not be
// omitted, and false when tag was not open at all.
func closeTag(stack []openTag, tag string) ([]openTag, []openTag, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name != tag {
			continue
		}
		var unclosed []openTag
		for _, o := range stack[i+1:] {
			if !impliedEnd[o.name] {
				unclosed = append(unclosed, o)
			}
		}
		return stack[:i], unclosed, true
	}
	return stack, nil, false
}
