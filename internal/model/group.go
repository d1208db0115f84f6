package model

import "time"

// DefaultMaxMembers 学习小组默认人数上限
const DefaultMaxMembers = 10

type GroupMember struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AvatarColor string    `json:"avatarColor"`
	JoinedDate  time.Time `json:"joinedDate"`
}

type GroupMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsModerated bool      `json:"isModerated"`
}

type CollaborationGroup struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    LessonCategory `json:"category"`
	CreatedBy   string         `json:"createdBy"`
	CreatedDate time.Time      `json:"createdDate"`
	Members     []GroupMember  `json:"members"`
	Messages    []GroupMessage `json:"messages"`
	MaxMembers  int            `json:"maxMembers"`
}

func (g *CollaborationGroup) IsFull() bool {
	return len(g.Members) >= g.MaxMembers
}

func (g CollaborationGroup) Clone() CollaborationGroup {
	g.Members = append([]GroupMember{}, g.Members...)
	g.Messages = append([]GroupMessage{}, g.Messages...)
	return g
}
