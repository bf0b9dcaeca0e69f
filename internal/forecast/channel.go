package forecast

import (
	"strings"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

// Channel is a marketing surface whose signal feeds one regression model.
type Channel int

const (
	Video Channel = iota
	Instagram
	Facebook
	TikTok

	numChannels = 4
)

// Channels returns every channel in canonical order.
func Channels() []Channel {
	return []Channel{Video, Instagram, Facebook, TikTok}
}

func (c Channel) String() string {
	switch c {
	case Video:
		return "video"
	case Instagram:
		return "instagram"
	case Facebook:
		return "facebook"
	case TikTok:
		return "tiktok"
	default:
		return "unknown"
	}
}

// Title is the human label used on charts.
func (c Channel) Title() string {
	switch c {
	case Video:
		return "Trailer views impact"
	case Instagram:
		return "Instagram presence impact"
	case Facebook:
		return "Facebook presence impact"
	case TikTok:
		return "TikTok presence impact"
	default:
		return "Unknown channel"
	}
}

func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "youtube", "trailer":
		return Video, nil
	case "instagram":
		return Instagram, nil
	case "facebook":
		return Facebook, nil
	case "tiktok":
		return TikTok, nil
	}

	return 0, errs.NewInputError("channel", "unknown channel %q", s)
}

// Features lists the regression inputs of the channel. The first feature is
// the one swept by the curve sampler.
func (c Channel) Features() []Feature {
	switch c {
	case Video:
		return []Feature{TrailerViews, LagDay}
	case Instagram:
		return []Feature{InstagramFollowers}
	case Facebook:
		return []Feature{FacebookFollowers}
	case TikTok:
		return []Feature{TikTokFollowers}
	default:
		return nil
	}
}

func (c Channel) SweptFeature() Feature {
	return c.Features()[0]
}

type Feature int

const (
	TrailerViews Feature = iota
	LagDay
	InstagramFollowers
	FacebookFollowers
	TikTokFollowers
)

func (f Feature) String() string {
	switch f {
	case TrailerViews:
		return "trailer_views"
	case LagDay:
		return "lag_day"
	case InstagramFollowers:
		return "instagram_followers"
	case FacebookFollowers:
		return "facebook_followers"
	case TikTokFollowers:
		return "tiktok_followers"
	default:
		return "unknown"
	}
}

// Label is the axis label for the feature.
func (f Feature) Label() string {
	switch f {
	case TrailerViews:
		return "YouTube views"
	case LagDay:
		return "Days since trailer"
	case InstagramFollowers:
		return "Instagram followers"
	case FacebookFollowers:
		return "Facebook followers"
	case TikTokFollowers:
		return "TikTok followers"
	default:
		return "unknown"
	}
}

func (f Feature) value(r *dataset.HistoricalRecord) (float64, bool) {
	var v *int64
	switch f {
	case TrailerViews:
		v = r.TrailerViews
	case LagDay:
		v = r.LagDay
	case InstagramFollowers:
		v = r.Instagram
	case FacebookFollowers:
		v = r.Facebook
	case TikTokFollowers:
		v = r.TikTok
	}
	if v == nil {
		return 0, false
	}

	return float64(*v), true
}
