package handlers

import (
	"quickchat/chat"
	"quickchat/storage"
	"quickchat/uploads"
)

const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

// Package-level collaborators, wired once from main.
var (
	chatService   *chat.Service
	userStore     *storage.Users
	imageUploader uploads.Uploader
)

// Configure injects the handler package's collaborators. imageUploader
// may be nil, in which case image sends and avatar updates are refused.
func Configure(svc *chat.Service, users *storage.Users, uploader uploads.Uploader) {
	chatService = svc
	userStore = users
	imageUploader = uploader
}
