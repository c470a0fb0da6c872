package sanity

// Equipment is a catalog item as projected by the queries below.
type Equipment struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// NewsPost is a published news article.
type NewsPost struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// GROQ queries used by the content proxy. Slugs are flattened to plain
// strings and images resolved to asset URLs in the projection so callers
// never see store-internal references.
const (
	EquipmentListQuery = `*[_type == "equipment"] | order(title asc) {
  _id,
  title,
  "slug": slug.current,
  description,
  "category": category->title,
  "imageUrl": mainImage.asset->url,
  features
}`

	EquipmentBySlugQuery = `*[_type == "equipment" && slug.current == $slug][0] {
  _id,
  title,
  "slug": slug.current,
  description,
  "category": category->title,
  "imageUrl": mainImage.asset->url,
  features
}`

	NewsListQuery = `*[_type == "news"] | order(publishedAt desc) {
  _id,
  title,
  "slug": slug.current,
  publishedAt,
  excerpt,
  "imageUrl": mainImage.asset->url
}`

	NewsBySlugQuery = `*[_type == "news" && slug.current == $slug][0] {
  _id,
  title,
  "slug": slug.current,
  publishedAt,
  excerpt,
  "imageUrl": mainImage.asset->url
}`
)
