package preview

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Metadata はページから抽出したプレビュー情報を表す。
type Metadata struct {
	Title       string
	Description string
}

// ExtractMetadata はHTMLのheadタグからtitleとmeta descriptionを抽出する。
// og:titleとog:descriptionがあればそちらを優先する。
// bodyに入った時点で解析を打ち切る。
func ExtractMetadata(htmlBody []byte) Metadata {
	var meta Metadata
	var ogTitle, ogDescription string

	tokenizer := html.NewTokenizer(bytes.NewReader(htmlBody))
	inTitle := false

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return pickMetadata(meta, ogTitle, ogDescription)

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			tagName := string(tn)

			if tagName == "body" {
				// bodyに入ったらheadの解析を終了
				return pickMetadata(meta, ogTitle, ogDescription)
			}

			if tagName == "title" {
				inTitle = true
				continue
			}

			if tagName != "meta" || !hasAttr {
				continue
			}

			// meta要素の属性を解析
			var name, property, content string
			for {
				key, val, more := tokenizer.TagAttr()
				k := strings.ToLower(string(key))
				v := string(val)
				switch k {
				case "name":
					name = strings.ToLower(v)
				case "property":
					property = strings.ToLower(v)
				case "content":
					content = v
				}
				if !more {
					break
				}
			}

			switch {
			case name == "description":
				meta.Description = content
			case property == "og:title":
				ogTitle = content
			case property == "og:description":
				ogDescription = content
			}

		case html.TextToken:
			if inTitle {
				meta.Title += string(tokenizer.Text())
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = false
			}
		}
	}
}

// pickMetadata はog:*を優先してプレビュー情報を確定する。
func pickMetadata(meta Metadata, ogTitle, ogDescription string) Metadata {
	if ogTitle != "" {
		meta.Title = ogTitle
	}
	if ogDescription != "" {
		meta.Description = ogDescription
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Description = strings.TrimSpace(meta.Description)
	return meta
}
