package store

import "time"

// The view types are the outward-facing representations of stored entities.
// They apply the cloned-media precedence rule: whenever a durable copy of a
// media asset exists, it replaces the original URL in every response.

// PageView is the outward representation of a Page.
type PageView struct {
	ID                int64      `json:"id"`
	PageID            string     `json:"page_id"`
	LinkedInID        *string    `json:"linkedin_id"`
	Name              string     `json:"name"`
	URL               string     `json:"url"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	Description       string     `json:"description"`
	Tagline           string     `json:"tagline"`
	Website           string     `json:"website"`
	Industry          string     `json:"industry"`
	CompanySize       string     `json:"company_size"`
	Headquarters      string     `json:"headquarters"`
	FoundedYear       *int       `json:"founded_year"`
	CompanyType       string     `json:"company_type"`
	FollowerCount     int        `json:"follower_count"`
	EmployeeCount     int        `json:"employee_count"`
	Specialties       []string   `json:"specialties"`
	Locations         []string   `json:"locations"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastScrapedAt     *time.Time `json:"last_scraped_at"`
}

// View converts the page to its outward representation.
func (p *Page) View() PageView {
	return PageView{
		ID:                p.ID,
		PageID:            p.PageID,
		LinkedInID:        p.LinkedInID,
		Name:              p.Name,
		URL:               p.URL,
		ProfilePictureURL: preferCloned(p.ProfilePictureS3URL, p.ProfilePictureURL),
		Description:       p.Description,
		Tagline:           p.Tagline,
		Website:           p.Website,
		Industry:          p.Industry,
		CompanySize:       p.CompanySize,
		Headquarters:      p.Headquarters,
		FoundedYear:       p.FoundedYear,
		CompanyType:       p.CompanyType,
		FollowerCount:     p.FollowerCount,
		EmployeeCount:     p.EmployeeCount,
		Specialties:       p.Specialties,
		Locations:         p.Locations,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		LastScrapedAt:     p.LastScrapedAt,
	}
}

// PostView is the outward representation of a Post.
type PostView struct {
	ID           int64      `json:"id"`
	PostID       string     `json:"post_id"`
	PageRef      int64      `json:"page_ref"`
	Text         string     `json:"text"`
	ContentType  string     `json:"content_type"`
	MediaURL     string     `json:"media_url"`
	MediaType    string     `json:"media_type"`
	LikeCount    int        `json:"like_count"`
	CommentCount int        `json:"comment_count"`
	ShareCount   int        `json:"share_count"`
	ViewCount    int        `json:"view_count"`
	PostedAt     *time.Time `json:"posted_at"`
	AuthorName   string     `json:"author_name"`
	AuthorTitle  string     `json:"author_title"`
	Hashtags     []string   `json:"hashtags"`
	Mentions     []string   `json:"mentions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// View converts the post to its outward representation.
func (p *Post) View() PostView {
	return PostView{
		ID:           p.ID,
		PostID:       p.PostID,
		PageRef:      p.PageRef,
		Text:         p.Text,
		ContentType:  p.ContentType,
		MediaURL:     preferCloned(p.MediaS3URL, p.MediaURL),
		MediaType:    p.MediaType,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		ViewCount:    p.ViewCount,
		PostedAt:     p.PostedAt,
		AuthorName:   p.AuthorName,
		AuthorTitle:  p.AuthorTitle,
		Hashtags:     p.Hashtags,
		Mentions:     p.Mentions,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CommentView is the outward representation of a Comment.
type CommentView struct {
	ID                   int64      `json:"id"`
	CommentID            string     `json:"comment_id"`
	PostRef              int64      `json:"post_ref"`
	Text                 string     `json:"text"`
	AuthorID             string     `json:"author_id"`
	AuthorName           string     `json:"author_name"`
	AuthorTitle          string     `json:"author_title"`
	AuthorProfileURL     string     `json:"author_profile_url"`
	AuthorProfilePicture string     `json:"author_profile_picture"`
	LikeCount            int        `json:"like_count"`
	ReplyCount           int        `json:"reply_count"`
	ParentCommentID      *int64     `json:"parent_comment_id"`
	CommentedAt          *time.Time `json:"commented_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// View converts the comment to its outward representation.
func (c *Comment) View() CommentView {
	return CommentView{
		ID:                   c.ID,
		CommentID:            c.CommentID,
		PostRef:              c.PostRef,
		Text:                 c.Text,
		AuthorID:             c.AuthorID,
		AuthorName:           c.AuthorName,
		AuthorTitle:          c.AuthorTitle,
		AuthorProfileURL:     c.AuthorProfileURL,
		AuthorProfilePicture: c.AuthorProfilePicture,
		LikeCount:            c.LikeCount,
		ReplyCount:           c.ReplyCount,
		ParentCommentID:      c.ParentCommentID,
		CommentedAt:          c.CommentedAt,
		CreatedAt:            c.CreatedAt,
	}
}

// EmployeeView is the outward representation of an Employee.
type EmployeeView struct {
	ID                int64     `json:"id"`
	LinkedInID        string    `json:"linkedin_id"`
	PageRef           int64     `json:"page_ref"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	FullName          string    `json:"full_name"`
	Headline          string    `json:"headline"`
	ProfileURL        string    `json:"profile_url"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	CurrentTitle      string    `json:"current_title"`
	CurrentCompany    string    `json:"current_company"`
	Location          string    `json:"location"`
	Country           string    `json:"country"`
	Industry          string    `json:"industry"`
	ConnectionsCount  *int      `json:"connections_count"`
	IsFollowing       bool      `json:"is_following"`
	IsFollower        bool      `json:"is_follower"`
	IsEmployee        bool      `json:"is_employee"`
	Skills            []string  `json:"skills"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// View converts the employee to its outward representation.
func (e *Employee) View() EmployeeView {
	return EmployeeView{
		ID:                e.ID,
		LinkedInID:        e.LinkedInID,
		PageRef:           e.PageRef,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		FullName:          e.FullName,
		Headline:          e.Headline,
		ProfileURL:        e.ProfileURL,
		ProfilePictureURL: preferCloned(e.ProfilePictureS3URL, e.ProfilePictureURL),
		CurrentTitle:      e.CurrentTitle,
		CurrentCompany:    e.CurrentCompany,
		Location:          e.Location,
		Country:           e.Country,
		Industry:          e.Industry,
		ConnectionsCount:  e.ConnectionsCount,
		IsFollowing:       e.IsFollowing,
		IsFollower:        e.IsFollower,
		IsEmployee:        e.IsEmployee,
		Skills:            e.Skills,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// preferCloned picks the durable copy of a media URL when one exists.
func preferCloned(cloned, original string) string {
	if cloned != "" {
		return cloned
	}
	return original
}

// PostViews converts a slice of posts.
func PostViews(posts []*Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View())
	}
	return views
}

// CommentViews converts a slice of comments.
func CommentViews(comments []*Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views
}

// EmployeeViews converts a slice of employees.
func EmployeeViews(employees []*Employee) []EmployeeView {
	views := make([]EmployeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, e.View())
	}
	return views
}

// PageViews converts a slice of pages.
func PageViews(pages []*Page) []PageView {
	views := make([]PageView, 0, len(pages))
	for _, p := range pages {
		views = append(views, p.View())
	}
	return views
}
