package domain

// CarouselSettings configures the client-side carousel widget. Field names
// follow the widget's own option names so the struct can be handed to it
// verbatim as JSON.
type CarouselSettings struct {
	Dots           bool                 `json:"dots"`
	Infinite       bool                 `json:"infinite"`
	Speed          int                  `json:"speed"`
	SlidesToShow   int                  `json:"slidesToShow"`
	SlidesToScroll int                  `json:"slidesToScroll"`
	Autoplay       bool                 `json:"autoplay"`
	AutoplaySpeed  int                  `json:"autoplaySpeed"`
	Arrows         bool                 `json:"arrows"`
	Responsive     []CarouselBreakpoint `json:"responsive,omitempty"`
}

// CarouselBreakpoint overrides settings below a viewport width in pixels.
type CarouselBreakpoint struct {
	Breakpoint int                `json:"breakpoint"`
	Settings   BreakpointSettings `json:"settings"`
}

// BreakpointSettings is the subset of options a breakpoint may override.
// Unset pointers keep the base value.
type BreakpointSettings struct {
	SlidesToShow   int   `json:"slidesToShow"`
	SlidesToScroll int   `json:"slidesToScroll"`
	Infinite       *bool `json:"infinite,omitempty"`
	Dots           *bool `json:"dots,omitempty"`
	InitialSlide   *int  `json:"initialSlide,omitempty"`
}

// DefaultCarouselSettings returns four cards per slide on wide screens,
// stepping down to three, two and one.
func DefaultCarouselSettings() CarouselSettings {
	on := true
	initial := 2
	return CarouselSettings{
		Dots:           true,
		Infinite:       true,
		Speed:          500,
		SlidesToShow:   4,
		SlidesToScroll: 1,
		Autoplay:       false,
		AutoplaySpeed:  3000,
		Arrows:         true,
		Responsive: []CarouselBreakpoint{
			{Breakpoint: 1200, Settings: BreakpointSettings{SlidesToShow: 3, SlidesToScroll: 1, Infinite: &on, Dots: &on}},
			{Breakpoint: 900, Settings: BreakpointSettings{SlidesToShow: 2, SlidesToScroll: 1, InitialSlide: &initial}},
			{Breakpoint: 600, Settings: BreakpointSettings{SlidesToShow: 1, SlidesToScroll: 1}},
		},
	}
}
