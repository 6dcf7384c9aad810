package domain

import "fmt"

// Mood is one of the fixed discovery moods.
type Mood string

const (
	MoodEnergetic     Mood = "energetic"
	MoodChill         Mood = "chill"
	MoodMelancholic   Mood = "melancholic"
	MoodEuphoric      Mood = "euphoric"
	MoodContemplative Mood = "contemplative"
	MoodAggressive    Mood = "aggressive"
	MoodRomantic      Mood = "romantic"
	MoodFocus         Mood = "focus"
	MoodNostalgic     Mood = "nostalgic"
	MoodParty         Mood = "party"
	MoodPeaceful      Mood = "peaceful"
	MoodDramatic      Mood = "dramatic"
)

// Moods lists every mood in display order.
var Moods = []Mood{
	MoodEnergetic, MoodChill, MoodMelancholic, MoodEuphoric,
	MoodContemplative, MoodAggressive, MoodRomantic, MoodFocus,
	MoodNostalgic, MoodParty, MoodPeaceful, MoodDramatic,
}

// ParseMood validates a mood name.
func ParseMood(s string) (Mood, error) {
	m := Mood(s)
	if _, ok := moodTable[m]; !ok {
		return "", fmt.Errorf("domain: unknown mood %q", s)
	}
	return m, nil
}

// MoodProfile is the static taxonomy record for a mood.
type MoodProfile struct {
	PrimaryGenres   []string
	SecondaryGenres []string
	Indicators      []string
	Keywords        []string
	Artists         []string // representative artists, searched as artist:<name>
	YearRanges      []string // "1990-2005"
	SearchGenres    []string // genre tags known to return search results
	Description     string
}

// Profile returns the taxonomy record for m. Unknown moods get an empty profile.
func (m Mood) Profile() MoodProfile {
	return moodTable[m]
}

// Band is an inclusive integer range.
type Band struct{ Lo, Hi int }

// Contains reports whether v lies within the band.
func (b Band) Contains(v int) bool { return v >= b.Lo && v <= b.Hi }

// ContextProfile describes the popularity, era and release-type sweet spots
// used by the mood scorer.
type ContextProfile struct {
	OptimalPopularity    Band
	AcceptablePopularity Band
	PeakEras             []Band
	SecondaryEras        []Band
	AlbumTypeFit         map[string]float64
}

// ContextFor returns the context profile keyed by the mood name. Only the
// dance, dark, bright and mellow keys carry a profile; callers score every
// other mood neutrally.
func ContextFor(m Mood) (ContextProfile, bool) {
	p, ok := contextProfiles[string(m)]
	return p, ok
}

var contextProfiles = map[string]ContextProfile{
	"dance": {
		OptimalPopularity:    Band{60, 85},
		AcceptablePopularity: Band{40, 95},
		PeakEras:             []Band{{1995, 2010}},
		SecondaryEras:        []Band{{1980, 1994}, {2011, 2024}},
		AlbumTypeFit:         map[string]float64{"single": 0.8, "compilation": 0.9, "album": 0.6},
	},
	"dark": {
		OptimalPopularity:    Band{20, 60},
		AcceptablePopularity: Band{0, 80},
		PeakEras:             []Band{{1980, 1995}},
		SecondaryEras:        []Band{{1970, 1979}, {1996, 2010}},
		AlbumTypeFit:         map[string]float64{"album": 0.9, "single": 0.6, "compilation": 0.5},
	},
	"bright": {
		OptimalPopularity:    Band{50, 90},
		AcceptablePopularity: Band{30, 100},
		PeakEras:             []Band{{1960, 1980}, {2000, 2020}},
		SecondaryEras:        []Band{{1950, 1999}},
		AlbumTypeFit:         map[string]float64{"single": 0.8, "album": 0.7, "compilation": 0.7},
	},
	"mellow": {
		OptimalPopularity:    Band{30, 70},
		AcceptablePopularity: Band{0, 85},
		PeakEras:             []Band{{1970, 1990}, {2000, 2020}},
		SecondaryEras:        []Band{{1960, 1999}},
		AlbumTypeFit:         map[string]float64{"album": 0.9, "single": 0.6, "compilation": 0.5},
	},
}

var moodTable = map[Mood]MoodProfile{
	MoodEnergetic: {
		PrimaryGenres:   []string{"rock", "metal", "punk", "hardcore", "speed-metal"},
		SecondaryGenres: []string{"hard-rock", "alternative-rock", "grunge", "ska", "garage-rock"},
		Indicators:      []string{"energy", "power", "loud", "fast", "intense", "driving"},
		Keywords:        []string{"energy", "power", "intense", "driving", "explosive", "electric", "charged", "dynamic"},
		Artists:         []string{"Linkin Park", "The Killers", "Foo Fighters", "Arctic Monkeys", "Green Day"},
		YearRanges:      []string{"2010-2024", "2000-2010", "1990-2000"},
		SearchGenres:    []string{"rock", "metal", "punk", "electronic", "hard-rock"},
		Description:     "High-energy & intense",
	},
	MoodChill: {
		PrimaryGenres:   []string{"ambient", "chillout", "lo-fi", "downtempo", "trip-hop"},
		SecondaryGenres: []string{"chill-hop", "chillwave", "ambient-techno", "dub-techno", "minimal"},
		Indicators:      []string{"chill", "relax", "calm", "mellow", "smooth", "laid-back"},
		Keywords:        []string{"chill", "relax", "calm", "mellow", "smooth", "laid-back", "easy", "cool"},
		Artists:         []string{"Bon Iver", "Lana Del Rey", "The National", "Cigarettes After Sex", "Mac DeMarco"},
		YearRanges:      []string{"2010-2024", "2000-2015", "1990-2005"},
		SearchGenres:    []string{"indie", "alternative", "folk", "ambient", "downtempo"},
		Description:     "Relaxed & laid-back",
	},
	MoodMelancholic: {
		PrimaryGenres:   []string{"indie", "alternative", "slowcore", "sadcore", "emo"},
		SecondaryGenres: []string{"indie-rock", "post-rock", "shoegaze", "dream-pop", "gothic"},
		Indicators:      []string{"sad", "melancholy", "blue", "tears", "rain", "lonely"},
		Keywords:        []string{"sad", "melancholy", "blue", "tears", "rain", "lonely", "somber", "wistful"},
		Artists:         []string{"Radiohead", "The Cure", "Joy Division", "Elliott Smith", "Phoebe Bridgers"},
		YearRanges:      []string{"1990-2005", "2000-2015", "1980-1995"},
		SearchGenres:    []string{"indie", "alternative", "post-rock", "slowcore", "folk"},
		Description:     "Sad & introspective",
	},
	MoodEuphoric: {
		PrimaryGenres:   []string{"trance", "progressive-house", "uplifting-trance", "eurodance", "happy-hardcore"},
		SecondaryGenres: []string{"vocal-trance", "progressive-trance", "tech-trance", "psytrance"},
		Indicators:      []string{"euphoria", "uplifting", "soaring", "ecstatic", "bliss", "high"},
		Keywords:        []string{"euphoria", "uplifting", "soaring", "ecstatic", "bliss", "high", "elevated", "transcendent"},
		Artists:         []string{"Daft Punk", "Calvin Harris", "Avicii", "Swedish House Mafia", "Deadmau5"},
		YearRanges:      []string{"2008-2018", "1995-2005", "2018-2024"},
		SearchGenres:    []string{"electronic", "dance", "house", "trance", "pop"},
		Description:     "Uplifting & ecstatic",
	},
	MoodContemplative: {
		PrimaryGenres:   []string{"classical", "jazz", "indie", "folk", "alternative"},
		SecondaryGenres: []string{"post-rock", "neo-classical", "instrumental", "indie-folk", "art-rock"},
		Indicators:      []string{"contemplative", "thoughtful", "deep", "introspective", "reflective"},
		Keywords:        []string{"contemplative", "meditative", "thoughtful", "introspective", "reflective", "deep", "philosophical"},
		Artists:         []string{"Sigur Rós", "Ólafur Arnalds", "Max Richter", "Nils Frahm", "Kiasmos"},
		YearRanges:      []string{"2000-2024", "1970-1990", "1990-2010"},
		SearchGenres:    []string{"classical", "ambient", "post-rock", "instrumental", "jazz"},
		Description:     "Thoughtful & meditative",
	},
	MoodAggressive: {
		PrimaryGenres:   []string{"metal", "hardcore", "punk", "thrash", "death-metal"},
		SecondaryGenres: []string{"black-metal", "grindcore", "metalcore", "nu-metal", "industrial"},
		Indicators:      []string{"aggressive", "brutal", "intense", "rage", "anger", "violent"},
		Keywords:        []string{"aggressive", "brutal", "intense", "rage", "anger", "violent", "fierce", "savage"},
		Artists:         []string{"Metallica", "Slipknot", "Rage Against The Machine", "Tool", "System Of A Down"},
		YearRanges:      []string{"1990-2005", "2000-2015", "1980-1995"},
		SearchGenres:    []string{"metal", "hardcore", "punk", "industrial", "grunge"},
		Description:     "Intense & powerful",
	},
	MoodRomantic: {
		PrimaryGenres:   []string{"soul", "r&b", "jazz", "bossa-nova", "romantic"},
		SecondaryGenres: []string{"neo-soul", "contemporary-r&b", "smooth-jazz", "love-songs"},
		Indicators:      []string{"love", "romance", "heart", "valentine", "tender", "intimate"},
		Keywords:        []string{"love", "romance", "heart", "valentine", "tender", "intimate", "passion", "desire"},
		Artists:         []string{"John Legend", "Alicia Keys", "Sade", "D'Angelo", "Frank Ocean"},
		YearRanges:      []string{"1990-2010", "2000-2020", "1970-1990"},
		SearchGenres:    []string{"soul", "jazz", "pop", "r-n-b", "bossa-nova"},
		Description:     "Love & intimacy",
	},
	MoodFocus: {
		PrimaryGenres:   []string{"instrumental", "classical", "electronic", "post-rock", "jazz"},
		SecondaryGenres: []string{"lo-fi", "downtempo", "film-score", "neo-classical", "ambient"},
		Indicators:      []string{"instrumental", "study", "focus", "concentration", "work", "background"},
		Keywords:        []string{"focus", "concentration", "study", "work", "productive", "clear", "mindful", "sharp"},
		Artists:         []string{"Ludovico Einaudi", "GoGo Penguin", "Emancipator", "Bonobo", "Tycho"},
		YearRanges:      []string{"2010-2024", "2000-2015", "1990-2010"},
		SearchGenres:    []string{"ambient", "classical", "instrumental", "electronic", "post-rock"},
		Description:     "Concentration & productivity",
	},
	MoodNostalgic: {
		PrimaryGenres:   []string{"vintage", "oldies", "classic-rock", "retro", "80s"},
		SecondaryGenres: []string{"synthwave", "new-wave", "post-punk", "indie-pop", "jangle-pop"},
		Indicators:      []string{"nostalgic", "vintage", "retro", "memories", "old", "classic"},
		Keywords:        []string{"nostalgic", "vintage", "retro", "memories", "old", "classic", "reminiscent", "bygone"},
		Artists:         []string{"Fleetwood Mac", "The Beatles", "Pink Floyd", "Led Zeppelin", "David Bowie"},
		YearRanges:      []string{"1960-1980", "1980-1995", "1970-1990"},
		SearchGenres:    []string{"classic-rock", "oldies", "indie", "folk", "pop"},
		Description:     "Memories & vintage vibes",
	},
	MoodParty: {
		PrimaryGenres:   []string{"house", "techno", "dance", "disco", "funk"},
		SecondaryGenres: []string{"dance-pop", "electro", "big-room", "progressive-house", "tribal"},
		Indicators:      []string{"party", "club", "dance", "celebration", "festival", "rave"},
		Keywords:        []string{"party", "club", "dance", "celebration", "festival", "rave", "groove", "beat"},
		Artists:         []string{"Dua Lipa", "The Chainsmokers", "Disclosure", "Mark Ronson", "Diplo"},
		YearRanges:      []string{"2008-2020", "1995-2005", "2015-2024"},
		SearchGenres:    []string{"dance", "house", "pop", "electronic", "disco"},
		Description:     "Dance & celebration",
	},
	MoodPeaceful: {
		PrimaryGenres:   []string{"jazz", "folk", "acoustic", "classical", "indie"},
		SecondaryGenres: []string{"singer-songwriter", "soft-rock", "indie-folk", "neo-soul", "bossa-nova"},
		Indicators:      []string{"peaceful", "soft", "quiet", "gentle", "calm", "mellow"},
		Keywords:        []string{"peaceful", "serene", "tranquil", "zen", "harmony", "balance", "stillness", "quiet"},
		Artists:         []string{"Norah Jones", "Iron & Wine", "Kings of Convenience", "Zero 7", "Thievery Corporation"},
		YearRanges:      []string{"2000-2020", "1990-2010", "1970-1990"},
		SearchGenres:    []string{"jazz", "folk", "classical", "ambient", "acoustic"},
		Description:     "Calm & tranquil",
	},
	MoodDramatic: {
		PrimaryGenres:   []string{"classical", "film-score", "symphonic", "orchestral", "opera"},
		SecondaryGenres: []string{"soundtrack", "epic", "cinematic", "baroque", "romantic-classical"},
		Indicators:      []string{"dramatic", "epic", "cinematic", "powerful", "intense", "theatrical"},
		Keywords:        []string{"dramatic", "epic", "cinematic", "powerful", "intense", "theatrical", "grand", "monumental"},
		Artists:         []string{"Hans Zimmer", "Two Steps From Hell", "Clint Mansell", "Trent Reznor", "Jonny Greenwood"},
		YearRanges:      []string{"2000-2024", "1990-2010", "1980-2000"},
		SearchGenres:    []string{"classical", "soundtrack", "post-rock", "symphonic", "cinematic"},
		Description:     "Epic & cinematic",
	},
}
