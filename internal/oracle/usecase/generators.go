package usecase

import (
	"context"
	"fmt"
	"strings"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	oracledto "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/dto"
	profiledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/astro"
)

const oraclePersona = `You are the Oracle, a warm and insightful astrologer. ` +
	`You speak with quiet confidence, ground every statement in the sky data ` +
	`you are given, and never invent planetary positions. Keep the tone ` +
	`encouraging and concrete; avoid doom and vague filler.`

func (u *oracleUsecase) GenerateHoroscope(ctx context.Context, user *authdomain.User, rng oracledomain.HoroscopeRange) (*oracledto.ContentResponse, error) {
	return u.generate(ctx, user, horoscopeGenerator{rng: rng})
}

func (u *oracleUsecase) GenerateMoonPhase(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error) {
	return u.generate(ctx, user, moonPhaseGenerator{})
}

func (u *oracleUsecase) GenerateCosmicWeather(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error) {
	return u.generate(ctx, user, cosmicWeatherGenerator{})
}

func (u *oracleUsecase) GenerateVoidOfCourse(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error) {
	return u.generate(ctx, user, voidOfCourseGenerator{})
}

// horoscopeGenerator produces daily or weekly horoscopes. Requires the
// birth chart; without it the user gets a setup error.
type horoscopeGenerator struct {
	rng oracledomain.HoroscopeRange
}

func (g horoscopeGenerator) Variant(astro.Snapshot) oracledomain.Variant {
	return oracledomain.Horoscope{Range: g.rng}
}

func (g horoscopeGenerator) ChartPolicy() ChartPolicy { return ChartRequired }

func (g horoscopeGenerator) BuildPrompt(user *authdomain.User, chart *profiledomain.BirthChart, sky astro.Snapshot) (string, string) {
	period := "today"
	if g.rng == oracledomain.RangeWeekly {
		period = "the week ahead"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s horoscope for %s.\n\n", g.rng, displayName(user))
	writeChart(&b, chart)
	writeSky(&b, sky)
	fmt.Fprintf(&b, "Cover love, work and wellbeing for %s, tied to these placements.", period)
	return oraclePersona, b.String()
}

// moonPhaseGenerator comments on the current moon phase. The phase name is
// the sub-key, so a phase change mid-day yields a fresh reading even when
// the date has not rolled over. Skips silently without a chart.
type moonPhaseGenerator struct{}

func (moonPhaseGenerator) Variant(sky astro.Snapshot) oracledomain.Variant {
	return oracledomain.MoonPhase{Phase: sky.MoonPhase}
}

func (moonPhaseGenerator) ChartPolicy() ChartPolicy { return ChartOptionalSkip }

func (moonPhaseGenerator) BuildPrompt(user *authdomain.User, chart *profiledomain.BirthChart, sky astro.Snapshot) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short reflection on the current %s for %s.\n\n", sky.MoonPhase, displayName(user))
	writeChart(&b, chart)
	writeSky(&b, sky)
	b.WriteString("Explain what this phase invites them to do, given their placements.")
	return oraclePersona, b.String()
}

// cosmicWeatherGenerator summarizes the whole sky once per local day.
// Skips silently without a chart.
type cosmicWeatherGenerator struct{}

func (cosmicWeatherGenerator) Variant(astro.Snapshot) oracledomain.Variant {
	return oracledomain.CosmicWeather{}
}

func (cosmicWeatherGenerator) ChartPolicy() ChartPolicy { return ChartOptionalSkip }

func (cosmicWeatherGenerator) BuildPrompt(user *authdomain.User, chart *profiledomain.BirthChart, sky astro.Snapshot) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write today's cosmic weather report for %s.\n\n", displayName(user))
	writeChart(&b, chart)
	writeSky(&b, sky)
	b.WriteString("Summarize the overall energy of the day and one practical suggestion.")
	return oraclePersona, b.String()
}

// voidOfCourseGenerator alerts on void-of-course moon windows. Pure sky
// commentary; no chart needed.
type voidOfCourseGenerator struct{}

func (voidOfCourseGenerator) Variant(astro.Snapshot) oracledomain.Variant {
	return oracledomain.VoidOfCourse{}
}

func (voidOfCourseGenerator) ChartPolicy() ChartPolicy { return ChartNotNeeded }

func (voidOfCourseGenerator) BuildPrompt(user *authdomain.User, _ *profiledomain.BirthChart, sky astro.Snapshot) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a void-of-course moon note for %s.\n\n", displayName(user))
	writeSky(&b, sky)
	if sky.VoidOfCourse {
		b.WriteString("The moon is currently void of course. Explain what to postpone and what this window is good for.")
	} else {
		b.WriteString("The moon is not void of course right now. Briefly explain the concept and note that decisions made today carry normally.")
	}
	return oraclePersona, b.String()
}

func displayName(user *authdomain.User) string {
	if user.Name != "" {
		return user.Name
	}
	return "the seeker"
}

func writeChart(b *strings.Builder, chart *profiledomain.BirthChart) {
	if chart == nil {
		return
	}
	fmt.Fprintf(b, "Their birth chart: Sun in %s, Moon in %s", chart.SunSign, chart.MoonSign)
	if chart.RisingSign != "" {
		fmt.Fprintf(b, ", %s rising", chart.RisingSign)
	}
	b.WriteString(".\n")
}

func writeSky(b *strings.Builder, sky astro.Snapshot) {
	fmt.Fprintf(b, "Current sky: %s\n\n", sky.Describe())
}
