package rest

import "github.com/vladislavdragonenkov/checkout/internal/domain"

// Catalog — справочник альбомов для add-to-cart: цена снимается из него,
// а не из запроса клиента.
type Catalog struct {
	albums map[int64]domain.Album
}

// NewCatalog строит каталог из списка альбомов.
func NewCatalog(albums []domain.Album) *Catalog {
	byID := make(map[int64]domain.Album, len(albums))
	for _, album := range albums {
		byID[album.AlbumID] = album
	}
	return &Catalog{albums: byID}
}

// Album возвращает альбом по id.
func (c *Catalog) Album(albumID int64) (domain.Album, bool) {
	album, ok := c.albums[albumID]
	return album, ok
}

// DefaultCatalog — демонстрационный набор альбомов.
func DefaultCatalog() *Catalog {
	return NewCatalog([]domain.Album{
		{AlbumID: 1, Title: "Greatest Hits", PriceMinor: 899},
		{AlbumID: 2, Title: "Nevermind", PriceMinor: 1099},
		{AlbumID: 3, Title: "Kind of Blue", PriceMinor: 1299},
		{AlbumID: 4, Title: "Abbey Road", PriceMinor: 1499},
		{AlbumID: 5, Title: "Random Access Memories", PriceMinor: 999},
	})
}
