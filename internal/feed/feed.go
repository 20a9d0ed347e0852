// Package feed builds the public RSS 2.0 feed and the XML sitemap.
package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"nashr/internal/models"
	"nashr/internal/tags"
)

const (
	SiteTitle       = "مدیوم فارسی"
	SiteDescription = "مدیوم فارسی یک پلتفرم مدرن برای نشر و خواندن مقالات فارسی در موضوعات مختلف است."
	defaultCategory = "مقالات فارسی"
	defaultExcerpt  = "مقاله‌ای از مدیوم فارسی"

	// RSSItems is how many posts the feed carries.
	RSSItems = 20

	RSSContentType     = "application/rss+xml; charset=utf-8"
	SitemapContentType = "application/xml"
)

type rssDoc struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XMLNSContent string     `xml:"xmlns:content,attr"`
	XMLNSDC      string     `xml:"xmlns:dc,attr"`
	XMLNSAtom    string     `xml:"xmlns:atom,attr"`
	Channel      rssChannel `xml:"channel"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	Language      string    `xml:"language"`
	Copyright     string    `xml:"copyright"`
	LastBuildDate string    `xml:"lastBuildDate"`
	AtomLink      atomLink  `xml:"atom:link"`
	Generator     string    `xml:"generator"`
	Items         []rssItem `xml:"item"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int    `xml:"length,attr"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type rssItem struct {
	Title      string        `xml:"title"`
	Desc       cdata         `xml:"description"`
	Link       string        `xml:"link"`
	GUID       rssGUID       `xml:"guid"`
	PubDate    string        `xml:"pubDate"`
	Creator    string        `xml:"dc:creator"`
	Categories []string      `xml:"category"`
	Enclosure  *rssEnclosure `xml:"enclosure,omitempty"`
	Content    cdata         `xml:"content:encoded"`
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// ArticleURL is the canonical public address of a post.
func ArticleURL(baseURL, postID string) string {
	return baseURL + "/article/" + postID
}

func summary(content string) string {
	plain := []rune(strings.TrimSpace(htmlTag.ReplaceAllString(content, "")))
	if len(plain) > 500 {
		plain = plain[:500]
	}
	return string(plain) + "..."
}

// RSS renders posts (newest first, already limited by the caller) as an RSS 2.0 document.
func RSS(baseURL string, posts []models.Post, now time.Time) ([]byte, error) {
	doc := rssDoc{
		Version:      "2.0",
		XMLNSContent: "http://purl.org/rss/1.0/modules/content/",
		XMLNSDC:      "http://purl.org/dc/elements/1.1/",
		XMLNSAtom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         SiteTitle,
			Description:   SiteDescription,
			Link:          baseURL,
			Language:      "fa-ir",
			Copyright:     fmt.Sprintf("Copyright %d %s", now.Year(), SiteTitle),
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			AtomLink:      atomLink{Href: baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			Generator:     SiteTitle + " RSS Generator",
		},
	}

	for _, p := range posts {
		link := ArticleURL(baseURL, p.ID)
		desc := p.Excerpt
		if desc == "" {
			desc = defaultExcerpt
		}
		categories := p.TagList()
		if len(categories) == 0 {
			categories = []string{defaultCategory}
		}
		creator := ""
		if p.Author != nil {
			creator = p.Author.Name
		}

		item := rssItem{
			Title:      p.Title,
			Desc:       cdata{desc},
			Link:       link,
			GUID:       rssGUID{IsPermaLink: true, Value: link},
			PubDate:    p.CreatedAt.UTC().Format(time.RFC1123Z),
			Creator:    creator,
			Categories: categories,
			Content:    cdata{fmt.Sprintf(`<div dir="rtl">%s</div><p><a href="%s">ادامه مطلب</a></p>`, summary(p.Content), link)},
		}
		if p.CoverImage != "" {
			item.Enclosure = &rssEnclosure{URL: p.CoverImage, Type: "image/jpeg"}
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	return marshal(doc)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapInput is everything the sitemap lists.
type SitemapInput struct {
	// Posts need only ID and UpdatedAt.
	Posts []models.Post
	// Authors need only Username and UpdatedAt.
	Authors []models.User
	// TagColumns are raw tag columns of published posts.
	TagColumns []string
}

var staticPages = []struct {
	path, freq, priority string
}{
	{"", "daily", "1.0"},
	{"/explore", "daily", "0.9"},
	{"/topics", "weekly", "0.8"},
	{"/search", "monthly", "0.7"},
	{"/login", "monthly", "0.6"},
	{"/register", "monthly", "0.6"},
}

// Sitemap renders the sitemap: static pages, posts, author profiles and topics.
func Sitemap(baseURL string, in SitemapInput, now time.Time) ([]byte, error) {
	stamp := now.UTC().Format(time.RFC3339)
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{baseURL + page.path, stamp, page.freq, page.priority})
	}
	for _, p := range in.Posts {
		set.URLs = append(set.URLs, sitemapURL{ArticleURL(baseURL, p.ID), p.UpdatedAt.UTC().Format(time.RFC3339), "weekly", "0.8"})
	}
	for _, u := range in.Authors {
		set.URLs = append(set.URLs, sitemapURL{baseURL + "/profile/" + url.PathEscape(u.Username), u.UpdatedAt.UTC().Format(time.RFC3339), "weekly", "0.7"})
	}
	for _, tc := range tags.Ranked(tags.Aggregate(in.TagColumns)) {
		set.URLs = append(set.URLs, sitemapURL{baseURL + "/topic/" + url.PathEscape(tc.Name), stamp, "weekly", "0.6"})
	}

	return marshal(set)
}

func marshal(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
