package config

import "strings"

// Domain categories recognized by the analytics engine and the
// domain-change boundary detector.
const (
	CategoryWork          = "work"
	CategorySocial        = "social"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
	CategoryNews          = "news"
	CategoryEducation     = "education"
	CategoryOther         = "other"
)

// categoryOrder fixes the evaluation order so a domain matching multiple
// categories classifies deterministically.
var categoryOrder = []string{
	CategoryWork,
	CategoryEducation,
	CategoryNews,
	CategorySocial,
	CategoryEntertainment,
	CategoryShopping,
}

// Rules holds the domain categorization tables: exact/suffix domain lists
// and fallback keyword substrings per category. Lookup data, not behavior;
// the categories: config section can replace any list.
type Rules struct {
	Domains  map[string][]string
	Keywords map[string][]string
}

// Classify returns the category for a hostname, or CategoryOther when no
// rule matches. Matching is case-insensitive; domain rules match exactly or
// as a parent-domain suffix.
func (r *Rules) Classify(domain string) string {
	if domain == "" {
		return CategoryOther
	}
	host := strings.ToLower(domain)

	for _, category := range categoryOrder {
		for _, d := range r.Domains[category] {
			if host == d || strings.HasSuffix(host, "."+d) {
				return category
			}
		}
	}
	for _, category := range categoryOrder {
		for _, kw := range r.Keywords[category] {
			if strings.Contains(host, kw) {
				return category
			}
		}
	}
	return CategoryOther
}

// DefaultCategoryRules returns the curated categorization tables. These
// cover the common cases; deployments with niche internal tooling should
// extend the work list via configuration.
func DefaultCategoryRules() *Rules {
	return &Rules{
		Domains: map[string][]string{
			CategoryWork: {
				"github.com",
				"gitlab.com",
				"bitbucket.org",
				"stackoverflow.com",
				"stackexchange.com",
				"atlassian.net",
				"jira.com",
				"confluence.com",
				"slack.com",
				"notion.so",
				"linear.app",
				"figma.com",
				"docs.google.com",
				"drive.google.com",
				"sheets.google.com",
				"calendar.google.com",
				"mail.google.com",
				"outlook.com",
				"office.com",
				"zoom.us",
				"meet.google.com",
				"aws.amazon.com",
				"console.cloud.google.com",
				"portal.azure.com",
				"vercel.com",
				"netlify.com",
				"npmjs.com",
				"pkg.go.dev",
				"golang.org",
			},
			CategorySocial: {
				"facebook.com",
				"twitter.com",
				"x.com",
				"instagram.com",
				"linkedin.com",
				"reddit.com",
				"tiktok.com",
				"snapchat.com",
				"pinterest.com",
				"threads.net",
				"mastodon.social",
				"bsky.app",
				"discord.com",
				"whatsapp.com",
				"telegram.org",
			},
			CategoryEntertainment: {
				"youtube.com",
				"netflix.com",
				"hulu.com",
				"disneyplus.com",
				"twitch.tv",
				"spotify.com",
				"soundcloud.com",
				"vimeo.com",
				"hbomax.com",
				"primevideo.com",
				"crunchyroll.com",
				"steampowered.com",
				"epicgames.com",
			},
			CategoryShopping: {
				"amazon.com",
				"ebay.com",
				"etsy.com",
				"walmart.com",
				"target.com",
				"bestbuy.com",
				"aliexpress.com",
				"shopify.com",
				"wayfair.com",
				"costco.com",
			},
			CategoryNews: {
				"nytimes.com",
				"washingtonpost.com",
				"theguardian.com",
				"bbc.com",
				"bbc.co.uk",
				"cnn.com",
				"reuters.com",
				"apnews.com",
				"bloomberg.com",
				"wsj.com",
				"news.ycombinator.com",
				"arstechnica.com",
				"theverge.com",
				"techcrunch.com",
			},
			CategoryEducation: {
				"wikipedia.org",
				"coursera.org",
				"udemy.com",
				"edx.org",
				"khanacademy.org",
				"duolingo.com",
				"brilliant.org",
				"mit.edu",
				"stanford.edu",
				"arxiv.org",
				"scholar.google.com",
			},
		},
		Keywords: map[string][]string{
			CategoryWork:      {"jira", "wiki", "docs", "admin", "dashboard", "console"},
			CategorySocial:    {"forum", "community", "chat"},
			CategoryNews:      {"news", "daily", "times", "post"},
			CategoryEducation: {"learn", "course", "academy", "university", ".edu"},
			CategoryShopping:  {"shop", "store", "cart"},
		},
	}
}
