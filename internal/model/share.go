// Package model はドメインモデルを定義する。
package model

import "time"

// ShareCapability はユーザーの保存リンク一覧を匿名公開するための
// 共有トークンを表す。Tokenは推測不可能な識別子であり、所持のみで
// 閲覧を許可するケイパビリティとして扱う。
// ユーザーごとに最大1件（user_idユニーク制約）、Tokenは全体で一意。
type ShareCapability struct {
	ID        string
	OwnerID   string
	Token     string
	CreatedAt time.Time
}

// SharePath は公開パス（/share/<token>）を返す。
func (c *ShareCapability) SharePath() string {
	return "/share/" + c.Token
}
