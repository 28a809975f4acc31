package content

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Posts is an ordered list of posts, as handed to renderers.
type Posts []Post

// PublishedAt parses the post date. Dates are expected as YYYY-MM-DD, though
// other common spreadsheet formats are accepted as well.
func (p Post) PublishedAt() (time.Time, bool) {
	if strings.TrimSpace(p.Date) == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseAny(p.Date)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// SortByDate orders the posts newest first. Posts whose date cannot be
// parsed keep their relative order and go after all the dated ones.
func SortByDate(posts []Post) {
	type dated struct {
		post Post
		t    time.Time
		ok   bool
	}

	keyed := make([]dated, len(posts))
	for i, post := range posts {
		t, ok := post.PublishedAt()
		keyed[i] = dated{post, t, ok}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		switch {
		case keyed[i].ok && keyed[j].ok:
			return keyed[i].t.After(keyed[j].t)
		default:
			return keyed[i].ok && !keyed[j].ok
		}
	})

	for i := range keyed {
		posts[i] = keyed[i].post
	}
}

func (p Posts) Find(id string) (Post, bool) {
	for _, post := range p {
		if post.ID == id {
			return post, true
		}
	}

	return Post{}, false
}

// ByCategory returns the posts of the given site section, ignoring case.
func (p Posts) ByCategory(category string) Posts {
	res := Posts{}
	for _, post := range p {
		if post.Category != "" && strings.EqualFold(post.Category, category) {
			res = append(res, post)
		}
	}

	return res
}

// Featured returns the first featured post, or the first post when none is
// marked.
func (p Posts) Featured() (Post, bool) {
	if len(p) == 0 {
		return Post{}, false
	}

	for _, post := range p {
		if post.Featured {
			return post, true
		}
	}

	return p[0], true
}

// Trending returns up to limit trending posts. A non-positive limit returns
// all of them.
func (p Posts) Trending(limit int) Posts {
	res := Posts{}
	for _, post := range p {
		if !post.Trending {
			continue
		}

		if limit > 0 && len(res) == limit {
			break
		}
		res = append(res, post)
	}

	return res
}

// Recent returns the posts dated at most days before now. Undated posts are
// never recent.
func (p Posts) Recent(now time.Time, days int) Posts {
	res := Posts{}
	for _, post := range p {
		t, ok := post.PublishedAt()
		if !ok {
			continue
		}

		if int(now.Sub(t).Hours()/24) <= days {
			res = append(res, post)
		}
	}

	return res
}

// Search matches the query against the title, excerpt, tag and the text of
// the content, ignoring case.
func (p Posts) Search(query string) Posts {
	q := strings.ToLower(strings.TrimSpace(query))

	res := Posts{}
	for _, post := range p {
		fields := []string{post.Title, post.Excerpt, post.Tag, plainText(post.Content)}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				res = append(res, post)
				break
			}
		}
	}

	return res
}

// SplitHero separates the lead story from the rest when the first post is
// flagged as hero.
func SplitHero(posts Posts) (Post, Posts, bool) {
	if len(posts) == 0 || !posts[0].Hero {
		return Post{}, posts, false
	}

	return posts[0], posts[1:], true
}

func plainText(markup string) string {
	if !strings.ContainsRune(markup, '<') {
		return markup
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	return d.Text()
}
