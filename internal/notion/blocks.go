package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"blogsync/internal/logger"

	"go.uber.org/zap"
)

// ListChildren возвращает все дочерние блоки (со всех страниц выдачи).
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		q := url.Values{}
		q.Set("page_size", "100")
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}

		var resp listResponse[Block]
		path := "/blocks/" + url.PathEscape(blockID) + "/children?" + q.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", blockID, err)
		}
		blocks = append(blocks, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			return blocks, nil
		}
		cursor = *resp.NextCursor
	}
}

// BlockTree загружает дерево блоков страницы. Обход идёт по явному стеку,
// глубина ограничена MaxDepth: детей глубже предела не запрашиваем.
func (c *Client) BlockTree(ctx context.Context, rootID string) ([]*Node, error) {
	maxDepth := c.MaxDepth
	if maxDepth <= 0 {
		maxDepth = MaxBlockDepth
	}

	type pending struct {
		id    string
		depth int
		into  *[]*Node
	}

	var roots []*Node
	stack := []pending{{id: rootID, depth: 0, into: &roots}}
	truncated := 0

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := c.ListChildren(ctx, cur.id)
		if err != nil {
			return nil, err
		}
		for _, b := range children {
			n := &Node{Block: b, Depth: cur.depth}
			*cur.into = append(*cur.into, n)
			if !b.HasChildren {
				continue
			}
			if cur.depth+1 >= maxDepth {
				truncated++
				continue
			}
			stack = append(stack, pending{id: b.ID, depth: cur.depth + 1, into: &n.Children})
		}
	}

	if truncated > 0 {
		logger.WithCtx(ctx).Warn("Notion: дерево блоков обрезано по глубине",
			zap.String("root_id", rootID),
			zap.Int("max_depth", maxDepth),
			zap.Int("skipped_subtrees", truncated),
		)
	}
	return roots, nil
}

// Flatten раскладывает дерево в прямом порядке (блок, затем его дети).
func Flatten(nodes []*Node) []Block {
	var out []Block
	stack := make([]*Node, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n.Block)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}
