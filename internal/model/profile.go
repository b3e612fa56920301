package model

import "time"

// Account はエクスポートのaccount.jsから復元されたアカウント情報を表す。
type Account struct {
	Username    string
	DisplayName string
	CreatedAt   time.Time
}

// Profile はエクスポートのprofile.jsから復元されたプロフィール情報を表す。
type Profile struct {
	Bio       string
	Location  string
	AvatarURL string
	HeaderURL string
}
