// Command board is a terminal client for the community board. It runs
// the same engagement subsystem the web page uses: paginated listing
// with label filter, search and sort, post/reply composition, and
// one-shot good/bad reactions backed by the device ledger.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bakuwaki/internal/board"
	"bakuwaki/internal/client"
	"bakuwaki/internal/config"
	"bakuwaki/internal/ledger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Ledger.Path), 0o755); err != nil {
		log.Fatalf("Failed to create ledger dir: %v", err)
	}
	led, err := ledger.NewSQLite(cfg.Ledger.Path)
	if err != nil {
		log.Fatalf("Failed to open reaction ledger: %v", err)
	}
	defer led.Close()

	api := client.New(cfg.API.BaseURL)
	session := board.NewSession(api, led)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "list":
		err = runList(ctx, session, os.Args[2:])
	case "post":
		err = runPost(ctx, session, cfg, os.Args[2:])
	case "reply":
		err = runReply(ctx, session, cfg, os.Args[2:])
	case "react":
		err = runReact(ctx, session, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		var verr *board.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, verr.Message)
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: board <command> [flags]

commands:
  list   show a page of posts (-page -sort -label -search -replies)
  post   submit a new post (-name -label -image, body as argument)
  reply  reply to a post or reply (-name -to-post | -to-reply, body as argument)
  react  react to a target (-post | -reply, good|bad as argument)`)
}

func runList(ctx context.Context, s *board.Session, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	sortOrder := fs.String("sort", board.SortNewest, "newest|oldest|good|bad")
	label := fs.String("label", "", "label filter")
	search := fs.String("search", "", "search text")
	showReplies := fs.Bool("replies", false, "expand replies for every post")
	fs.Parse(args)

	if err := s.View.Load(ctx); err != nil {
		return err
	}
	// Criteria changes reset to page 1; an explicit -page then moves
	// within the new window (clamped).
	if err := s.View.SetSort(ctx, *sortOrder); err != nil {
		return err
	}
	if err := s.View.SetLabel(ctx, *label); err != nil {
		return err
	}
	if err := s.View.SetSearch(ctx, *search); err != nil {
		return err
	}
	if *page != 1 {
		if err := s.View.SetPage(ctx, *page); err != nil {
			return err
		}
	}

	window := s.View.Window()
	comments := s.View.Comments()
	fmt.Printf("みんなの口コミ — %d件 (ページ %d/%d)\n\n", window.Total, window.Page, window.TotalPages)
	for _, c := range comments {
		printComment(s, c, *showReplies)
	}
	return nil
}

func printComment(s *board.Session, c board.Comment, expand bool) {
	reaction := ""
	if c.MyReaction != "" {
		reaction = fmt.Sprintf(" [あなた: %s]", c.MyReaction)
	}
	fmt.Printf("#%d [%s] %s  (%s)\n", c.ID, c.Label, c.Username, c.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  %s\n", c.Content)
	for _, img := range c.ImageURLs {
		fmt.Printf("  画像: %s\n", img)
	}
	fmt.Printf("  👍%d 👎%d%s\n", c.GoodCount, c.BadCount, reaction)

	if len(c.Replies) == 0 {
		fmt.Println()
		return
	}
	if !expand && !s.Threads.IsExpanded(c.ID) {
		fmt.Printf("  %s\n\n", s.Threads.ToggleLabel(c.ID, len(c.Replies)))
		return
	}
	for _, r := range c.Replies {
		attribution := board.Attribution(r)
		if attribution != "" {
			attribution += " "
		}
		myReaction := ""
		if r.MyReaction != "" {
			myReaction = fmt.Sprintf(" [あなた: %s]", r.MyReaction)
		}
		fmt.Printf("    ↳ #%d %s: %s%s  👍%d 👎%d%s\n",
			r.ID, r.Username, attribution, r.Content, r.GoodCount, r.BadCount, myReaction)
	}
	fmt.Println()
}

func runPost(ctx context.Context, s *board.Session, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	name := fs.String("name", cfg.User.Name, "display name")
	label := fs.String("label", board.NewDraft().Label, "現地情報|その他")
	var images imageList
	fs.Var(&images, "image", "image file to attach (repeatable, max 4)")
	fs.Parse(args)

	draft := board.NewDraft()
	draft.Username = *name
	draft.Label = *label
	draft.Content = strings.Join(fs.Args(), " ")

	payloads, err := encodeImages(images)
	if err != nil {
		return err
	}
	if _, dropped := draft.AttachImages(payloads); dropped > 0 {
		fmt.Fprintf(os.Stderr, "写真は最大%d枚までです。%d枚は添付されませんでした。\n", board.MaxImages, dropped)
	}

	if err := s.SubmitPost(ctx, draft); err != nil {
		return err
	}
	fmt.Println("投稿しました")
	return nil
}

func runReply(ctx context.Context, s *board.Session, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reply", flag.ExitOnError)
	name := fs.String("name", cfg.User.Name, "display name")
	toPost := fs.Int("to-post", 0, "post id to reply to")
	toReply := fs.Int("to-reply", 0, "reply id to reply to")
	fs.Parse(args)

	if (*toPost == 0) == (*toReply == 0) {
		return fmt.Errorf("reply: exactly one of -to-post or -to-reply is required")
	}

	draft := &board.Draft{
		Username: *name,
		Content:  strings.Join(fs.Args(), " "),
	}

	// The owning post id is what gets its thread forced open; for a
	// reply-to-reply the server resolves the post, so only the direct
	// case matters here.
	target := board.ReplyTarget{Type: ledger.TargetPost, ID: *toPost}
	owningPost := *toPost
	if *toReply != 0 {
		target = board.ReplyTarget{Type: ledger.TargetReply, ID: *toReply}
		owningPost = 0
	}

	if err := s.SubmitReply(ctx, target, draft, owningPost); err != nil {
		return err
	}
	fmt.Println("返信しました")
	return nil
}

func runReact(ctx context.Context, s *board.Session, args []string) error {
	fs := flag.NewFlagSet("react", flag.ExitOnError)
	postID := fs.Int("post", 0, "post id")
	replyID := fs.Int("reply", 0, "reply id")
	fs.Parse(args)

	if (*postID == 0) == (*replyID == 0) {
		return fmt.Errorf("react: exactly one of -post or -reply is required")
	}
	polarity := ledger.Polarity(fs.Arg(0))
	if polarity != ledger.Good && polarity != ledger.Bad {
		return fmt.Errorf("react: polarity must be good or bad")
	}

	// Load the page first so the optimistic patch has something to hit.
	if err := s.View.Load(ctx); err != nil {
		return err
	}

	targetType, targetID := ledger.TargetPost, *postID
	if *replyID != 0 {
		targetType, targetID = ledger.TargetReply, *replyID
	}
	if err := s.React(ctx, targetType, targetID, polarity); err != nil {
		// The rollback already ran; nothing left to do but report.
		log.Printf("reaction failed (counts resynced): %v", err)
		return nil
	}
	fmt.Println("リアクションしました")
	return nil
}

type imageList []string

func (l *imageList) String() string {
	return strings.Join(*l, ",")
}

func (l *imageList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// encodeImages turns local files into the data-URL payloads the API
// expects. The board itself never inspects them.
func encodeImages(paths []string) ([]string, error) {
	payloads := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", path, err)
		}
		mime := "image/jpeg"
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png":
			mime = "image/png"
		case ".gif":
			mime = "image/gif"
		case ".webp":
			mime = "image/webp"
		}
		payloads = append(payloads, "data:"+mime+";base64,"+base64.StdEncoding.EncodeToString(data))
	}
	return payloads, nil
}
