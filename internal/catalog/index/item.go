package index

// Item is one entry of an inverted index: a tag or genre name and the
// identities of the games carrying it, in scan order.
type Item struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Games []int  `json:"games"`
}

func (i *Item) EntryName() string { return i.Name }

func (i *Item) AssignID(id int) { i.ID = id }

// Postings returns the number of game references held by the item.
func (i *Item) Postings() int {
	return len(i.Games)
}
