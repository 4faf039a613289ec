package summary

import (
	"sort"

	"github.com/deepsolv/linkedin-insights/store"
)

// Top-N caps for the aggregated fact groups.
const (
	topHashtagLimit = 10
	topValueLimit   = 5
)

// Facts is the structured input handed to the narrative generator. The
// Content and People groups are optional; a generator must tolerate their
// absence.
type Facts struct {
	Page    PageFacts     `json:"page"`
	Content *ContentFacts `json:"content,omitempty"`
	People  *PeopleFacts  `json:"people,omitempty"`
}

// PageFacts carries the page-level attributes worth narrating.
type PageFacts struct {
	PageID        string   `json:"page_id"`
	Name          string   `json:"name"`
	Industry      string   `json:"industry"`
	Description   string   `json:"description"`
	FollowerCount int      `json:"follower_count"`
	EmployeeCount int      `json:"employee_count"`
	CompanySize   string   `json:"company_size"`
	Headquarters  string   `json:"headquarters"`
	FoundedYear   *int     `json:"founded_year,omitempty"`
	CompanyType   string   `json:"company_type"`
	Specialties   []string `json:"specialties,omitempty"`
}

// ContentFacts aggregates a bounded post sample.
type ContentFacts struct {
	SampleSize      int            `json:"sample_size"`
	TotalEngagement int            `json:"total_engagement"`
	TotalLikes      int            `json:"total_likes"`
	TotalComments   int            `json:"total_comments"`
	TotalShares     int            `json:"total_shares"`
	AvgLikes        float64        `json:"avg_likes"`
	AvgComments     float64        `json:"avg_comments"`
	AvgShares       float64        `json:"avg_shares"`
	ContentTypes    map[string]int `json:"content_types"`
	TopHashtags     []string       `json:"top_hashtags,omitempty"`
}

// PeopleFacts aggregates a bounded employee/follower sample.
type PeopleFacts struct {
	SampleSize    int      `json:"sample_size"`
	TopTitles     []string `json:"top_titles,omitempty"`
	TopLocations  []string `json:"top_locations,omitempty"`
	TopIndustries []string `json:"top_industries,omitempty"`
}

// BuildFacts aggregates a page with optional post and employee samples into
// the generator input. Nil or empty samples simply omit their fact group.
func BuildFacts(page *store.Page, posts []*store.Post, employees []*store.Employee) Facts {
	facts := Facts{Page: pageFactsOf(page)}

	if len(posts) > 0 {
		facts.Content = contentFactsOf(posts)
	}
	if len(employees) > 0 {
		facts.People = peopleFactsOf(employees)
	}
	return facts
}

func pageFactsOf(page *store.Page) PageFacts {
	return PageFacts{
		PageID:        page.PageID,
		Name:          page.Name,
		Industry:      page.Industry,
		Description:   page.Description,
		FollowerCount: page.FollowerCount,
		EmployeeCount: page.EmployeeCount,
		CompanySize:   page.CompanySize,
		Headquarters:  page.Headquarters,
		FoundedYear:   page.FoundedYear,
		CompanyType:   page.CompanyType,
		Specialties:   page.Specialties,
	}
}

func contentFactsOf(posts []*store.Post) *ContentFacts {
	facts := &ContentFacts{
		SampleSize:   len(posts),
		ContentTypes: make(map[string]int),
	}

	var hashtags []string
	for _, post := range posts {
		facts.TotalLikes += post.LikeCount
		facts.TotalComments += post.CommentCount
		facts.TotalShares += post.ShareCount

		contentType := post.ContentType
		if contentType == "" {
			contentType = "text"
		}
		facts.ContentTypes[contentType]++
		hashtags = append(hashtags, post.Hashtags...)
	}

	n := float64(len(posts))
	facts.TotalEngagement = facts.TotalLikes + facts.TotalComments + facts.TotalShares
	facts.AvgLikes = float64(facts.TotalLikes) / n
	facts.AvgComments = float64(facts.TotalComments) / n
	facts.AvgShares = float64(facts.TotalShares) / n
	facts.TopHashtags = topValues(hashtags, topHashtagLimit)
	return facts
}

func peopleFactsOf(employees []*store.Employee) *PeopleFacts {
	titles := make([]string, 0, len(employees))
	locations := make([]string, 0, len(employees))
	industries := make([]string, 0, len(employees))
	for _, emp := range employees {
		titles = append(titles, emp.CurrentTitle)
		locations = append(locations, emp.Location)
		industries = append(industries, emp.Industry)
	}

	return &PeopleFacts{
		SampleSize:    len(employees),
		TopTitles:     topValues(titles, topValueLimit),
		TopLocations:  topValues(locations, topValueLimit),
		TopIndustries: topValues(industries, topValueLimit),
	}
}

// topValues returns the limit most frequent non-empty values, most frequent
// first; equally frequent values keep their first-encountered order.
func topValues(values []string, limit int) []string {
	type entry struct {
		value string
		count int
		first int
	}

	index := make(map[string]*entry)
	var order []*entry
	for i, v := range values {
		if v == "" {
			continue
		}
		if e, ok := index[v]; ok {
			e.count++
			continue
		}
		e := &entry{value: v, count: 1, first: i}
		index[v] = e
		order = append(order, e)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) == 0 {
		return nil
	}
	if len(order) > limit {
		order = order[:limit]
	}
	out := make([]string, 0, len(order))
	for _, e := range order {
		out = append(out, e.value)
	}
	return out
}
