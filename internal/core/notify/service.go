package notify

import (
	"fmt"
	"strings"

	"onlypans/internal/infrastructure/config"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"go.uber.org/zap"
)

// Notifier 通知服務：組合郵件內容並交給隊列發送
// 發送為 fire-and-forget，失敗只記錄、不影響請求
// --------------------------------------------------
type Notifier struct {
	cfg   config.MailConfig
	queue *Queue
}

// NewNotifier 創建通知服務；未啟用郵件時回傳 no-op 實例
func NewNotifier(cfg config.MailConfig) *Notifier {
	n := &Notifier{cfg: cfg}
	if !cfg.Enabled {
		common.LogInfo("郵件通知未啟用，通知將被略過")
		return n
	}

	n.queue = NewQueue(NewMailClient(cfg), cfg.Workers, cfg.MaxQueueSize)
	n.queue.Start()
	return n
}

// Close 關閉底層隊列
func (n *Notifier) Close() {
	if n.queue != nil {
		n.queue.Close()
	}
}

// QueueStatus 取得隊列狀態，未啟用時回傳 nil
func (n *Notifier) QueueStatus() *Status {
	if n.queue == nil {
		return nil
	}
	return n.queue.GetStatus()
}

// CommentOnRecipe 通知食譜作者有新留言；自己留言自己的食譜不通知
func (n *Notifier) CommentOnRecipe(recipe *models.Recipe, comment *models.Comment) {
	if recipe.User == nil || recipe.UserID == comment.UserID {
		return
	}
	author := displayName(comment.User)
	n.dispatch(&Message{
		Kind:      "comment",
		Recipient: recipe.User.Email,
		Subject:   fmt.Sprintf("%s 在你的食譜「%s」留言了", author, recipe.Title),
		Body: fmt.Sprintf("%s 留言：\n\n%s\n\n前往食譜：/recipes/%s",
			author, comment.Content, recipe.Slug),
	})
}

// RatingOnRecipe 通知食譜作者收到新評分；自己評分自己的食譜不通知
func (n *Notifier) RatingOnRecipe(recipe *models.Recipe, rating *models.Rating) {
	if recipe.User == nil || recipe.UserID == rating.UserID {
		return
	}
	n.dispatch(&Message{
		Kind:      "rating",
		Recipient: recipe.User.Email,
		Subject:   fmt.Sprintf("你的食譜「%s」獲得 %d 星評分", recipe.Title, rating.Rating),
		Body: fmt.Sprintf("有人給了你的食譜「%s」%d 星。\n\n前往食譜：/recipes/%s",
			recipe.Title, rating.Rating, recipe.Slug),
	})
}

// NewFollower 通知被追蹤者有新的追蹤者
func (n *Notifier) NewFollower(followed, follower *models.User) {
	if followed == nil || follower == nil {
		return
	}
	n.dispatch(&Message{
		Kind:      "new_follower",
		Recipient: followed.Email,
		Subject:   fmt.Sprintf("%s 開始追蹤你了", displayName(follower)),
		Body: fmt.Sprintf("%s 開始追蹤你。\n\n看看他的頁面：/profiles/%s",
			displayName(follower), follower.Username),
	})
}

// WeeklyDigest 發送每週精選食譜摘要
func (n *Notifier) WeeklyDigest(user *models.User, recipes []models.Recipe) {
	if user == nil || len(recipes) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("本週為你挑選的食譜：\n\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "- %s（/recipes/%s）\n", r.Title, r.Slug)
	}
	n.dispatch(&Message{
		Kind:      "weekly_digest",
		Recipient: user.Email,
		Subject:   "本週食譜精選",
		Body:      b.String(),
	})
}

func (n *Notifier) dispatch(msg *Message) {
	if n.queue == nil {
		return
	}
	if err := n.queue.Enqueue(msg); err != nil {
		common.LogWarn("通知進入隊列失敗",
			zap.String("kind", msg.Kind),
			zap.Error(err))
	}
}

func displayName(u *models.User) string {
	if u == nil {
		return "有人"
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
