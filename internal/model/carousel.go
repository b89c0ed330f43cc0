package model

import "time"

// Carousel tracks the visible position in a rotating list of n banners.
// The index is always in [0, n), and 0 when the list is empty.
type Carousel struct {
	n     int
	index int
}

func NewCarousel(n int) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n}
}

// Len returns the number of banners in rotation.
func (c *Carousel) Len() int { return c.n }

// Current returns the visible index.
func (c *Carousel) Current() int { return c.index }

// Next advances one position, wrapping from the last banner to the first.
func (c *Carousel) Next() int {
	if c.n == 0 {
		return 0
	}
	c.index = (c.index + 1) % c.n
	return c.index
}

// Previous moves back one position, wrapping from the first banner to the last.
func (c *Carousel) Previous() int {
	if c.n == 0 {
		return 0
	}
	c.index = (c.index - 1 + c.n) % c.n
	return c.index
}

// Seek positions the carousel at i, normalised into range.
func (c *Carousel) Seek(i int) int {
	if c.n == 0 {
		c.index = 0
		return 0
	}
	c.index = ((i % c.n) + c.n) % c.n
	return c.index
}

// IndexAt returns the banner shown after elapsed time when the carousel
// advances once per interval. Rotation only happens with more than one banner.
func (c *Carousel) IndexAt(elapsed, interval time.Duration) int {
	if c.n <= 1 || interval <= 0 || elapsed <= 0 {
		return 0
	}
	return int((elapsed / interval) % time.Duration(c.n))
}
