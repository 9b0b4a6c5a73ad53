package services

import (
	"context"
	"errors"
	"fmt"

	"blogsync/internal/logger"
	"blogsync/internal/models"
	"blogsync/internal/revalidate"
	"blogsync/internal/webhook"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	TagPosts = "posts"

	// HomePath и ListPath: главная и лента; обе показывают список опубликованных постов.
	HomePath = "/"
	ListPath = "/blog"

	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// PostPath: путь страницы поста в кэше.
func PostPath(slug string) string { return "/blog/" + slug }

type PageResolver interface {
	PageStatus(ctx context.Context, pageID string) (models.PageStatus, error)
}

type PostMirror interface {
	MirrorPost(ctx context.Context, st models.PageStatus) ([]models.ImageAsset, error)
}

// Outcome: результат обработки одного события.
type Outcome struct {
	Success     bool     `json:"success"`
	Status      string   `json:"status"`
	Type        string   `json:"type"`
	PageID      string   `json:"pageId,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	Revalidated []string `json:"revalidated,omitempty"`
	Images      int      `json:"images,omitempty"`
	Skipped     bool     `json:"skipped,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Error       string   `json:"error,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

type Counts struct {
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

type Summary struct {
	Success   bool      `json:"success"`
	Processed int       `json:"processed"`
	Results   Counts    `json:"results"`
	Details   []Outcome `json:"details"`
}

type Dispatcher struct {
	resolver    PageResolver
	mirror      PostMirror
	invalidator revalidate.Invalidator
	concurrency int
}

func NewDispatcher(resolver PageResolver, mirror PostMirror, invalidator revalidate.Invalidator, concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Dispatcher{
		resolver:    resolver,
		mirror:      mirror,
		invalidator: invalidator,
		concurrency: concurrency,
	}
}

// Dispatch обрабатывает события пачки параллельно. Ошибка одного события
// не влияет на остальные; порядок Details совпадает с порядком событий.
func (d *Dispatcher) Dispatch(ctx context.Context, events []webhook.Event) Summary {
	outcomes := make([]Outcome, len(events))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, ev := range events {
		g.Go(func() error {
			outcomes[i] = d.safeHandle(ctx, ev)
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{Success: true, Processed: len(events), Details: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			sum.Results.Successful++
		case StatusSkipped:
			sum.Results.Skipped++
		default:
			sum.Results.Failed++
		}
	}

	logger.WithCtx(ctx).Info("Вебхук обработан",
		zap.Int("processed", sum.Processed),
		zap.Int("successful", sum.Results.Successful),
		zap.Int("skipped", sum.Results.Skipped),
		zap.Int("failed", sum.Results.Failed),
	)
	return sum
}

func (d *Dispatcher) safeHandle(ctx context.Context, ev webhook.Event) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("Паника при обработке события",
				zap.String("page_id", ev.PageID),
				zap.Any("panic", r),
			)
			out = failed(ev, fmt.Sprintf("panic: %v", r))
		}
	}()
	return d.Handle(ctx, ev)
}

// Handle: RESOLVED -> MIRRORED -> INVALIDATED | SKIPPED | FAILED.
func (d *Dispatcher) Handle(ctx context.Context, ev webhook.Event) Outcome {
	log := logger.WithCtx(ctx).With(
		zap.String("event_type", ev.RawType),
		zap.String("page_id", ev.PageID),
		zap.String("schema", ev.Schema),
	)

	if !ev.Supported() {
		log.Info("Событие не поддерживается, пропускаем")
		return skipped(ev, "unsupported event type")
	}
	if ev.PageID == "" {
		log.Warn("В событии нет ID страницы")
		return failed(ev, "no page id")
	}

	if ev.Kind == webhook.KindDeleted {
		// slug удалённой страницы уже не узнать: сбрасываем только списки
		if err := d.invalidator.InvalidateTag(ctx, TagPosts); err != nil {
			log.Error("Не удалось сбросить список постов", zap.Error(err))
			return failed(ev, "list revalidation failed: "+err.Error())
		}
		log.Info("Страница удалена, список постов сброшен")
		out := success(ev)
		out.Revalidated = []string{"tag:" + TagPosts}
		return out
	}

	st, err := d.resolver.PageStatus(ctx, ev.PageID)
	if err != nil {
		log.Warn("Не удалось получить страницу", zap.Error(err))
		return failed(ev, "failed to fetch page info: "+err.Error())
	}

	if !st.Published {
		log.Info("Страница не опубликована, пропускаем", zap.String("slug", st.Slug))
		out := skipped(ev, "page is not published")
		out.Slug = st.Slug
		return out
	}

	out := success(ev)
	out.Slug = st.Slug

	// сначала зеркало, потом инвалидация: перечитанная страница уже увидит новые ссылки
	if d.mirror != nil {
		assets, err := d.mirror.MirrorPost(ctx, st)
		if err != nil {
			log.Warn("Ошибка зеркалирования картинок", zap.Error(err))
			out.Warnings = append(out.Warnings, "image mirroring failed: "+err.Error())
		}
		out.Images = len(assets)
	}

	path := PostPath(st.Slug)
	if err := d.invalidator.InvalidatePath(ctx, path); err != nil {
		log.Error("Не удалось сбросить страницу поста", zap.String("path", path), zap.Error(err))
		fail := failed(ev, "revalidation failed: "+err.Error())
		fail.Slug = st.Slug
		fail.Images = out.Images
		fail.Warnings = out.Warnings
		return fail
	}
	out.Revalidated = append(out.Revalidated, path)

	if err := d.invalidator.InvalidateTag(ctx, TagPosts); err != nil {
		log.Warn("Не удалось сбросить список постов", zap.Error(err))
		out.Warnings = append(out.Warnings, "list revalidation failed: "+err.Error())
	} else {
		out.Revalidated = append(out.Revalidated, "tag:"+TagPosts)
	}

	log.Info("Пост обновлён", zap.String("slug", st.Slug), zap.Strings("revalidated", out.Revalidated))
	return out
}

func eventType(ev webhook.Event) string {
	if ev.Kind != "" {
		return string(ev.Kind)
	}
	return ev.RawType
}

func success(ev webhook.Event) Outcome {
	return Outcome{Success: true, Status: StatusSuccess, Type: eventType(ev), PageID: ev.PageID}
}

func skipped(ev webhook.Event, reason string) Outcome {
	return Outcome{Success: true, Status: StatusSkipped, Type: eventType(ev), PageID: ev.PageID, Skipped: true, Reason: reason}
}

func failed(ev webhook.Event, msg string) Outcome {
	return Outcome{Status: StatusFailed, Type: eventType(ev), PageID: ev.PageID, Error: msg}
}

// ErrDispatcherNotReady: у диспетчера нет инвалидатора.
var ErrDispatcherNotReady = errors.New("dispatcher is not configured")

func (d *Dispatcher) Ready() error {
	if d.invalidator == nil {
		return ErrDispatcherNotReady
	}
	return nil
}
