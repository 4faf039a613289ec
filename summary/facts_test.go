package summary

import (
	"reflect"
	"testing"

	"github.com/deepsolv/linkedin-insights/store"
)

func TestTopValues(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		limit  int
		want   []string
	}{
		{"empty", nil, 5, nil},
		{"only blanks", []string{"", ""}, 5, nil},
		{"skips blanks", []string{"", "a", ""}, 5, []string{"a"}},
		{
			"frequency order",
			[]string{"a", "b", "b", "c", "c", "c"},
			5,
			[]string{"c", "b", "a"},
		},
		{
			"ties keep first-encountered order",
			[]string{"x", "y", "x", "y", "z"},
			5,
			[]string{"x", "y", "z"},
		},
		{
			"limit applies after sorting",
			[]string{"a", "b", "b", "c", "c", "c"},
			2,
			[]string{"c", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topValues(tt.values, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("topValues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildFactsOmitsEmptyGroups(t *testing.T) {
	page := &store.Page{PageID: "acme", Name: "Acme", FollowerCount: 10}

	facts := BuildFacts(page, nil, nil)
	if facts.Content != nil {
		t.Error("Content should be nil without posts")
	}
	if facts.People != nil {
		t.Error("People should be nil without employees")
	}
	if facts.Page.PageID != "acme" {
		t.Errorf("Page.PageID = %q", facts.Page.PageID)
	}
}

func TestBuildFactsContentAggregation(t *testing.T) {
	page := &store.Page{PageID: "acme", Name: "Acme"}
	posts := []*store.Post{
		{ContentType: "image", LikeCount: 10, CommentCount: 2, ShareCount: 1, Hashtags: []string{"launch", "ai"}},
		{ContentType: "image", LikeCount: 20, CommentCount: 4, ShareCount: 1, Hashtags: []string{"ai"}},
		{LikeCount: 6, Hashtags: []string{"culture"}},
	}

	facts := BuildFacts(page, posts, nil)
	content := facts.Content
	if content == nil {
		t.Fatal("Content is nil")
	}

	if content.SampleSize != 3 {
		t.Errorf("SampleSize = %d", content.SampleSize)
	}
	if content.TotalLikes != 36 || content.TotalComments != 6 || content.TotalShares != 2 {
		t.Errorf("totals = %d/%d/%d", content.TotalLikes, content.TotalComments, content.TotalShares)
	}
	if content.TotalEngagement != 44 {
		t.Errorf("TotalEngagement = %d", content.TotalEngagement)
	}
	if content.AvgLikes != 12 {
		t.Errorf("AvgLikes = %v", content.AvgLikes)
	}
	if content.ContentTypes["image"] != 2 || content.ContentTypes["text"] != 1 {
		t.Errorf("ContentTypes = %v, missing type defaults to text", content.ContentTypes)
	}
	if !reflect.DeepEqual(content.TopHashtags, []string{"ai", "launch", "culture"}) {
		t.Errorf("TopHashtags = %v", content.TopHashtags)
	}
}

func TestBuildFactsPeopleAggregation(t *testing.T) {
	page := &store.Page{PageID: "acme"}
	employees := []*store.Employee{
		{CurrentTitle: "Engineer", Location: "Phoenix", Industry: "Software"},
		{CurrentTitle: "Engineer", Location: "Lisbon", Industry: "Software"},
		{CurrentTitle: "Designer", Location: "Phoenix"},
	}

	facts := BuildFacts(page, nil, employees)
	people := facts.People
	if people == nil {
		t.Fatal("People is nil")
	}

	if people.SampleSize != 3 {
		t.Errorf("SampleSize = %d", people.SampleSize)
	}
	if !reflect.DeepEqual(people.TopTitles, []string{"Engineer", "Designer"}) {
		t.Errorf("TopTitles = %v", people.TopTitles)
	}
	if !reflect.DeepEqual(people.TopLocations, []string{"Phoenix", "Lisbon"}) {
		t.Errorf("TopLocations = %v", people.TopLocations)
	}
	if !reflect.DeepEqual(people.TopIndustries, []string{"Software"}) {
		t.Errorf("TopIndustries = %v, empty industries must be skipped", people.TopIndustries)
	}
}
