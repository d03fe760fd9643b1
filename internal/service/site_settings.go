package service

// SiteSettings is the single aggregate of editable site copy.
// Each top-level field is persisted as one JSON document in system_settings.
type SiteSettings struct {
	Site         SiteInfo      `json:"site" yaml:"site"`
	Contact      ContactInfo   `json:"contact" yaml:"contact"`
	Social       SocialLinks   `json:"social" yaml:"social"`
	Hero         HeroSection   `json:"hero" yaml:"hero"`
	Stats        []StatItem    `json:"stats" yaml:"stats" validate:"dive"`
	Features     []FeatureItem `json:"features" yaml:"features" validate:"dive"`
	Steps        []StepItem    `json:"steps" yaml:"steps" validate:"dive"`
	Testimonials []Testimonial `json:"testimonials" yaml:"testimonials" validate:"dive"`
	About        AboutSection  `json:"about" yaml:"about"`
	AppLinks     AppLinks      `json:"appLinks" yaml:"appLinks"`
	Theme        ThemeColors   `json:"theme" yaml:"theme"`
	Images       SiteImages    `json:"images" yaml:"images"`
}

type SiteInfo struct {
	Name        string `json:"name" yaml:"name" validate:"required,max=80"`
	Tagline     string `json:"tagline" yaml:"tagline" validate:"max=160"`
	Description string `json:"description" yaml:"description" validate:"max=500"`
	Copyright   string `json:"copyright" yaml:"copyright"`
}

type ContactInfo struct {
	Email    string `json:"email" yaml:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" yaml:"phone" validate:"max=30"`
	WhatsApp string `json:"whatsapp" yaml:"whatsapp" validate:"max=30"`
	Address  string `json:"address" yaml:"address" validate:"max=300"`
	Hours    string `json:"hours" yaml:"hours"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook" yaml:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" yaml:"instagram" validate:"omitempty,url"`
	Twitter   string `json:"twitter" yaml:"twitter" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" yaml:"linkedin" validate:"omitempty,url"`
	YouTube   string `json:"youtube" yaml:"youtube" validate:"omitempty,url"`
}

type HeroSection struct {
	Title        string `json:"title" yaml:"title" validate:"required"`
	Highlight    string `json:"highlight" yaml:"highlight"`
	Subtitle     string `json:"subtitle" yaml:"subtitle"`
	PrimaryCTA   string `json:"primaryCta" yaml:"primaryCta"`
	PrimaryLink  string `json:"primaryLink" yaml:"primaryLink"`
	SecondaryCTA string `json:"secondaryCta" yaml:"secondaryCta"`
	SecondaryURL string `json:"secondaryLink" yaml:"secondaryLink"`
}

type StatItem struct {
	Label string `json:"label" yaml:"label" validate:"required"`
	Value string `json:"value" yaml:"value" validate:"required"`
}

type FeatureItem struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

type StepItem struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

type Testimonial struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Role   string `json:"role" yaml:"role"`
	Quote  string `json:"quote" yaml:"quote" validate:"required"`
	Avatar string `json:"avatar" yaml:"avatar"`
	Rating int    `json:"rating" yaml:"rating" validate:"min=0,max=5"`
}

type AboutSection struct {
	Title   string `json:"title" yaml:"title"`
	Story   string `json:"story" yaml:"story"`
	Mission string `json:"mission" yaml:"mission"`
	Vision  string `json:"vision" yaml:"vision"`
}

type AppLinks struct {
	PlayStore string `json:"playStore" yaml:"playStore" validate:"omitempty,url"`
	AppStore  string `json:"appStore" yaml:"appStore" validate:"omitempty,url"`
}

type ThemeColors struct {
	Primary    string `json:"primary" yaml:"primary" validate:"omitempty,hexcolor"`
	Secondary  string `json:"secondary" yaml:"secondary" validate:"omitempty,hexcolor"`
	Accent     string `json:"accent" yaml:"accent" validate:"omitempty,hexcolor"`
	Background string `json:"background" yaml:"background" validate:"omitempty,hexcolor"`
}

type SiteImages struct {
	Logo     string `json:"logo" yaml:"logo"`
	Favicon  string `json:"favicon" yaml:"favicon"`
	Hero     string `json:"hero" yaml:"hero"`
	About    string `json:"about" yaml:"about"`
	Safety   string `json:"safety" yaml:"safety"`
	AppPhone string `json:"appPhone" yaml:"appPhone"`
}

// SiteSettingsInput carries the sections to replace; nil sections are left untouched.
type SiteSettingsInput struct {
	Site         *SiteInfo      `json:"site"`
	Contact      *ContactInfo   `json:"contact"`
	Social       *SocialLinks   `json:"social"`
	Hero         *HeroSection   `json:"hero"`
	Stats        *[]StatItem    `json:"stats"`
	Features     *[]FeatureItem `json:"features"`
	Steps        *[]StepItem    `json:"steps"`
	Testimonials *[]Testimonial `json:"testimonials"`
	About        *AboutSection  `json:"about"`
	AppLinks     *AppLinks      `json:"appLinks"`
	Theme        *ThemeColors   `json:"theme"`
	Images       *SiteImages    `json:"images"`
}
