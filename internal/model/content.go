// Package model はドメインモデルを定義する。
package model

import "time"

// ContentType は保存されるリンクの種別を表す。
type ContentType string

const (
	// ContentTypeInstagram はInstagramのリンク。
	ContentTypeInstagram ContentType = "Instagram"
	// ContentTypeYoutube はYouTubeのリンク。
	ContentTypeYoutube ContentType = "Youtube"
	// ContentTypeWhatsapp はWhatsAppのリンク。
	ContentTypeWhatsapp ContentType = "Whatsapp"
	// ContentTypeFacebook はFacebookのリンク。
	ContentTypeFacebook ContentType = "Facebook"
	// ContentTypeRandom は分類されないリンク。未指定時のデフォルト値。
	ContentTypeRandom ContentType = "Random"
)

// IsValid はContentTypeが定義済みの値かを返す。
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeInstagram, ContentTypeYoutube, ContentTypeWhatsapp,
		ContentTypeFacebook, ContentTypeRandom:
		return true
	}
	return false
}

// ContentItem はユーザーが保存したリンクを表す。
// OwnerIDは作成時の認証済みプリンシパルから設定され、以後変更されない。
type ContentItem struct {
	ID                 string
	OwnerID            string
	Link               string
	Type               ContentType
	Title              string
	Tags               string
	PreviewTitle       string
	PreviewDescription string
	CreatedAt          time.Time
}
