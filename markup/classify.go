package markup

import "strings"

// Classify returns the kind of a token literal. The rules are tried in
// order and the first match wins, so "<?x?>" is a header even though it
// also has the shape of an opening tag.
func Classify(s string) Kind {
	switch {
	case isHeader(s):
		return KindHeader
	case isComment(s):
		return KindComment
	case isCData(s):
		return KindCData
	case isClosing(s):
		return KindClosing
	case isOpening(s):
		return KindOpening
	case isSingle(s):
		return KindSingle
	case isContent(s):
		return KindContent
	}
	return KindUndefined
}

func isHeader(s string) bool {
	return len(s) >= 4 && strings.HasPrefix(s, "<?") && strings.HasSuffix(s, "?>")
}

func isComment(s string) bool {
	return len(s) >= 7 && strings.HasPrefix(s, "<!--") && strings.HasSuffix(s, "-->")
}

func isCData(s string) bool {
	return len(s) >= 12 && strings.HasPrefix(s, "<![CDATA[") && strings.HasSuffix(s, "]]>")
}

func isClosing(s string) bool {
	return len(s) >= 3 && strings.HasPrefix(s, "</") && strings.HasSuffix(s, ">")
}

func isOpening(s string) bool {
	return isTag(s) && s[len(s)-2] != '/'
}

func isSingle(s string) bool {
	return isTag(s) && len(s) >= 3 && s[len(s)-2] == '/'
}

func isTag(s string) bool {
	return len(s) >= 2 && s[0] == '<' && s[len(s)-1] == '>'
}

func isContent(s string) bool {
	return s != "" && (s[0] != '<' || s[len(s)-1] != '>')
}
