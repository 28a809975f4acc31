package content

const fallbackBody = "<p>This is fallback content. Please check your Google Sheets CMS connection.</p>"

// FallbackPosts returns the built-in set served when neither the source nor
// any cached copy is available. The set is never empty, and every call
// returns a fresh slice.
func FallbackPosts() []Post {
	return []Post{
		{
			ID:       "1",
			Title:    "Why minimal design matters",
			Excerpt:  "Focus, whitespace, and editorial clarity.",
			Tag:      "Art",
			Date:     "2025-08-20",
			Img:      "images/img2.svg",
			Span:     "span2x1",
			Content:  fallbackBody,
			Category: "art",
			Trending: true,
		},
		{
			ID:       "2",
			Title:    "Analog vs Digital in modern music",
			Excerpt:  "A producer's view on tape vs plugins.",
			Tag:      "Music",
			Date:     "2025-08-22",
			Img:      "images/img2.svg",
			Span:     "span1x2",
			Content:  fallbackBody,
			Category: "music",
			Trending: true,
		},
		{
			ID:       "3",
			Title:    "Summer street style picks",
			Excerpt:  "Comfort meets attitude.",
			Tag:      "Style",
			Date:     "2025-08-24",
			Img:      "images/img3.svg",
			Span:     "span2x2",
			Content:  fallbackBody,
			Category: "fashion",
			Featured: true,
			Trending: true,
		},
		{
			ID:       "4",
			Title:    "Small routines for big focus",
			Excerpt:  "Tiny habits, huge results.",
			Tag:      "LifeStyle",
			Date:     "2025-08-18",
			Img:      "images/img4.svg",
			Span:     "span1x1",
			Content:  fallbackBody,
			Category: "lifestyle",
		},
		{
			ID:       "5",
			Title:    "City Derby tonight",
			Excerpt:  "Preview and spicy takes.",
			Tag:      "Sports",
			Date:     "2025-08-27",
			Img:      "images/img5.svg",
			Span:     "span4x1",
			Content:  fallbackBody,
			Category: "sports",
		},
		{
			ID:       "6",
			Title:    "Portraits in green",
			Excerpt:  "A photographer experiments with accent colours.",
			Tag:      "Art",
			Date:     "2025-08-15",
			Img:      "images/img6.svg",
			Span:     "span1x1",
			Content:  fallbackBody,
			Category: "art",
		},
	}
}
