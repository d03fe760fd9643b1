package main

import (
	"fmt"
	"log"
	"time"

	"github.com/cabpool/internal/config"
	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/service"
	"gorm.io/gorm"
)

// 本地演示数据生成器：默认内容之外，再补充博客、reels 与联系消息。
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("读取配置失败:", err)
	}
	if err := db.Init(cfg.DatabaseDriver, cfg.DSN()); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")
	summary, err := generateDemoContent(db.DB, time.Now())
	if err != nil {
		log.Fatal("生成演示数据失败:", err)
	}

	fmt.Printf("✅ 演示数据生成完成: blogs=%d reels=%d messages=%d\n", summary.Blogs, summary.Reels, summary.Messages)
}

type demoSummary struct {
	Blogs    int
	Reels    int
	Messages int
}

type demoBlog struct {
	title     string
	excerpt   string
	content   string
	image     string
	published bool
	age       time.Duration
}

var demoBlogs = []demoBlog{
	{
		title:     "5 ways pooling cuts your commute cost",
		excerpt:   "Small habits that turn a daily cab into a shared ride.",
		content:   "## Share the fare\n\nA pooled cab splits one fare between up to **four** riders.\n\n- Book ten minutes early\n- Pick a pickup point on the main road\n- Travel at the same time every day\n\nhttps://www.youtube.com/watch?v=dQw4w9WgXcQ",
		image:     "https://images.unsplash.com/photo-1449965408869-eaa3f722e40d?auto=format&fit=crop&w=1600&q=80",
		published: true,
		age:       72 * time.Hour,
	},
	{
		title:     "How we verify every driver",
		excerpt:   "Background checks, live tracking and an SOS button on every ride.",
		content:   "## Safety first\n\nEvery driver passes a police verification and a road test before the first trip.\n\n> Riders can share a live link with family from the app.",
		image:     "https://images.unsplash.com/photo-1502877338535-766e1452684a?auto=format&fit=crop&w=1600&q=80",
		published: true,
		age:       36 * time.Hour,
	},
	{
		title:     "Office pools: a guide for HR teams",
		excerpt:   "Set up a company pool in an afternoon.",
		content:   "## Company pools\n\nInvite colleagues with a single link and split the monthly bill automatically.",
		published: true,
		age:       12 * time.Hour,
	},
	{
		title:   "Monsoon routes (draft)",
		excerpt: "Work in progress.",
		content: "Routes we avoid when it rains. Still collecting rider feedback.",
	},
}

var demoReels = []service.ReelInput{
	{ReelID: "https://www.instagram.com/reel/C3xYz12AbCd/", Title: "Morning pool in Koramangala", Visible: true},
	{ReelID: "C4pQr34EfGh", Title: "Meet our drivers", Visible: true},
	{ReelID: "C5lMn56IjKl", Title: "Behind the scenes", Visible: false},
}

var demoMessages = []service.ContactInput{
	{Name: "Asha Menon", Email: "asha@example.com", Subject: "Whitefield coverage", Message: "Do you run pools from Whitefield to MG Road?"},
	{Name: "Vikram Rao", Email: "vikram@example.com", Phone: "+91 98450 00000", Subject: "Corporate plan", Message: "We have 40 employees on the same shift. Can we get a quote?"},
}

// generateDemoContent 会先清理已有博客、reels 与联系消息，再写入演示数据。
func generateDemoContent(gdb *gorm.DB, now time.Time) (demoSummary, error) {
	var summary demoSummary
	if _, err := service.SeedDefaults(gdb); err != nil {
		return summary, fmt.Errorf("seed defaults: %w", err)
	}

	for _, model := range []interface{}{&db.Blog{}, &db.InstagramReel{}, &db.ContactMessage{}} {
		if err := gdb.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return summary, fmt.Errorf("clear %T: %w", model, err)
		}
	}

	blogs := service.NewBlogService(gdb)
	for _, data := range demoBlogs {
		blog, err := blogs.Create(service.BlogInput{
			Title:     data.title,
			Content:   data.content,
			Excerpt:   data.excerpt,
			Image:     data.image,
			Author:    "CabPool team",
			Published: data.published,
		})
		if err != nil {
			return summary, fmt.Errorf("create blog %q: %w", data.title, err)
		}
		if data.published {
			publishedAt := now.Add(-data.age)
			if err := gdb.Model(blog).Update("published_at", publishedAt).Error; err != nil {
				return summary, fmt.Errorf("backdate blog %q: %w", data.title, err)
			}
		}
		summary.Blogs++
	}

	reels := service.NewInstagramService(gdb)
	for _, input := range demoReels {
		if _, err := reels.Create(input); err != nil {
			return summary, fmt.Errorf("create reel %q: %w", input.Title, err)
		}
		summary.Reels++
	}

	contact := service.NewContactService(gdb)
	for _, input := range demoMessages {
		if _, err := contact.Submit(input); err != nil {
			return summary, fmt.Errorf("create message from %s: %w", input.Email, err)
		}
		summary.Messages++
	}

	if err := gdb.Model(&db.ContactMessage{}).Where("email = ?", demoMessages[0].Email).Update("handled", true).Error; err != nil {
		return summary, fmt.Errorf("mark message handled: %w", err)
	}
	return summary, nil
}
