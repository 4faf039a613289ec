package linkedin

// Provider wire types. Only the fields the normalizer reads are declared;
// everything else in the payloads is ignored on decode.

type elementsEnvelope[T any] struct {
	Elements []T `json:"elements"`
}

type orgRef struct {
	ID int64 `json:"id"`
}

type localizedText struct {
	Localized map[string]string `json:"localized"`
}

type staffCountRange struct {
	Start int  `json:"start"`
	End   *int `json:"end"`
}

type orgLocation struct {
	City           string `json:"city"`
	Country        string `json:"country"`
	IsHeadquarters bool   `json:"isHeadquarters"`
}

type foundedOn struct {
	Year int `json:"year"`
}

// imageSet covers both image payload shapes the provider uses: organization
// logos resolve under "cropped~", member pictures under "displayImage~".
type imageSet struct {
	Cropped      *imageElements `json:"cropped~"`
	DisplayImage *imageElements `json:"displayImage~"`
}

type imageElements struct {
	Elements []imageElement `json:"elements"`
}

type imageElement struct {
	Data struct {
		Width int `json:"width"`
	} `json:"data"`
	Identifiers []struct {
		Identifier string `json:"identifier"`
	} `json:"identifiers"`
}

type organization struct {
	ID                   int64            `json:"id"`
	Name                 string           `json:"name"`
	LocalizedName        string           `json:"localizedName"`
	VanityName           string           `json:"vanityName"`
	Description          string           `json:"description"`
	LocalizedDescription string           `json:"localizedDescription"`
	Website              localizedText    `json:"website"`
	Industries           []string         `json:"industries"`
	StaffCountRange      *staffCountRange `json:"staffCountRange"`
	Locations            []orgLocation    `json:"locations"`
	LogoV2               *imageSet        `json:"logoV2"`
	FoundedOn            *foundedOn       `json:"foundedOn"`
	Specialties          []string         `json:"specialties"`
	OrganizationType     string           `json:"organizationType"`
}

type followerStats struct {
	FollowerCounts struct {
		OrganicFollowerCount int `json:"organicFollowerCount"`
	} `json:"followerCounts"`
}

type epochTime struct {
	Time int64 `json:"time"`
}

type ugcPost struct {
	ID              string    `json:"id"`
	Created         epochTime `json:"created"`
	SpecificContent struct {
		ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	SocialDetail struct {
		TotalLikes    int `json:"totalLikes"`
		TotalComments int `json:"totalComments"`
		TotalShares   int `json:"totalShares"`
	} `json:"socialDetail"`
}

type shareContent struct {
	ShareCommentary struct {
		Text string `json:"text"`
	} `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []shareMedia `json:"media"`
}

type shareMedia struct {
	MediaType   string `json:"mediaType"`
	OriginalURL string `json:"originalUrl"`
	Thumbnails  []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

type socialComment struct {
	ID      string    `json:"id"`
	Actor   string    `json:"actor"`
	Created epochTime `json:"created"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
	LikesSummary struct {
		TotalLikes int `json:"totalLikes"`
	} `json:"likesSummary"`
}

type member struct {
	ID             string        `json:"id"`
	FirstName      localizedText `json:"firstName"`
	LastName       localizedText `json:"lastName"`
	Headline       localizedText `json:"headline"`
	VanityName     string        `json:"vanityName"`
	ProfilePicture *imageSet     `json:"profilePicture"`
	Location       struct {
		Name string `json:"name"`
	} `json:"location"`
	Industry string `json:"industry"`
}
