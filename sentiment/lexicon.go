package sentiment

// lexiconEntry pairs a polarity in [-1, 1] with a subjectivity in [0, 1].
type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// polarityLexicon covers the vocabulary that dominates YouTube comments.
// Values follow the conventional pattern-lexicon scale.
var polarityLexicon = map[string]lexiconEntry{
	// positive
	"good":        {0.7, 0.6},
	"great":       {0.8, 0.75},
	"awesome":     {1.0, 1.0},
	"amazing":     {0.6, 0.9},
	"excellent":   {1.0, 1.0},
	"fantastic":   {0.9, 0.9},
	"wonderful":   {1.0, 1.0},
	"perfect":     {1.0, 1.0},
	"best":        {1.0, 0.3},
	"better":      {0.5, 0.5},
	"beautiful":   {0.85, 1.0},
	"brilliant":   {0.9, 0.9},
	"love":        {0.5, 0.6},
	"loved":       {0.7, 0.8},
	"like":        {0.3, 0.4},
	"liked":       {0.4, 0.5},
	"enjoy":       {0.4, 0.5},
	"enjoyed":     {0.5, 0.6},
	"happy":       {0.8, 1.0},
	"glad":        {0.5, 1.0},
	"fun":         {0.3, 0.2},
	"funny":       {0.25, 0.8},
	"hilarious":   {0.7, 0.9},
	"cool":        {0.35, 0.65},
	"nice":        {0.6, 1.0},
	"interesting": {0.5, 0.5},
	"helpful":     {0.55, 0.3},
	"useful":      {0.3, 0.2},
	"impressive":  {0.9, 1.0},
	"incredible":  {0.9, 0.9},
	"epic":        {0.8, 0.9},
	"fire":        {0.6, 0.8},
	"goat":        {0.8, 0.9},
	"masterpiece": {0.9, 0.9},
	"underrated":  {0.4, 0.7},
	"legend":      {0.7, 0.8},
	"legendary":   {0.8, 0.8},
	"thanks":      {0.4, 0.4},
	"thank":       {0.4, 0.4},
	"recommend":   {0.5, 0.4},
	"win":         {0.6, 0.5},
	"winner":      {0.7, 0.6},
	"favorite":    {0.7, 0.8},
	"fresh":       {0.4, 0.6},
	"solid":       {0.5, 0.4},
	"banger":      {0.8, 0.9},
	"gem":         {0.7, 0.8},
	"wholesome":   {0.7, 0.8},
	"insightful":  {0.6, 0.5},
	"smart":       {0.5, 0.6},
	"clever":      {0.5, 0.6},
	"top":         {0.5, 0.5},
	"quality":     {0.4, 0.4},

	// negative
	"bad":           {-0.7, 0.65},
	"terrible":      {-1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"horrible":      {-1.0, 1.0},
	"worst":         {-1.0, 0.3},
	"worse":         {-0.5, 0.5},
	"hate":          {-0.8, 0.9},
	"hated":         {-0.9, 0.9},
	"dislike":       {-0.4, 0.5},
	"boring":        {-0.8, 1.0},
	"annoying":      {-0.7, 0.9},
	"stupid":        {-0.8, 0.9},
	"dumb":          {-0.7, 0.9},
	"ugly":          {-0.7, 1.0},
	"trash":         {-0.9, 0.9},
	"garbage":       {-0.9, 0.9},
	"cringe":        {-0.7, 0.9},
	"disappointing": {-0.6, 0.7},
	"disappointed":  {-0.6, 0.8},
	"fake":          {-0.5, 0.6},
	"clickbait":     {-0.7, 0.8},
	"overrated":     {-0.5, 0.7},
	"mid":           {-0.3, 0.7},
	"meh":           {-0.3, 0.8},
	"sad":           {-0.5, 1.0},
	"angry":         {-0.6, 0.9},
	"mad":           {-0.5, 0.8},
	"wrong":         {-0.5, 0.5},
	"broken":        {-0.4, 0.4},
	"useless":       {-0.6, 0.6},
	"pointless":     {-0.6, 0.7},
	"waste":         {-0.6, 0.6},
	"scam":          {-0.8, 0.7},
	"lies":          {-0.6, 0.7},
	"lying":         {-0.6, 0.7},
	"fail":          {-0.6, 0.6},
	"failure":       {-0.6, 0.6},
	"lose":          {-0.4, 0.4},
	"loser":         {-0.6, 0.7},
	"gross":         {-0.6, 0.9},
	"pathetic":      {-0.8, 0.9},
	"lame":          {-0.5, 0.8},
	"weird":         {-0.2, 0.8},
	"slow":          {-0.3, 0.4},
	"poor":          {-0.4, 0.6},
	"unwatchable":   {-0.9, 0.9},
}

// negations flip and dampen the polarity of the following token.
var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nobody":  true,
	"nothing": true,
	"isn't":   true,
	"isnt":    true,
	"wasn't":  true,
	"wasnt":   true,
	"aren't":  true,
	"arent":   true,
	"don't":   true,
	"dont":    true,
	"didn't":  true,
	"didnt":   true,
	"doesn't": true,
	"doesnt":  true,
	"can't":   true,
	"cant":    true,
	"won't":   true,
	"wont":    true,
	"ain't":   true,
	"aint":    true,
	"hardly":  true,
	"barely":  true,
}

// intensifiers scale the polarity of the following token.
var intensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"extremely":  1.5,
	"incredibly": 1.5,
	"absolutely": 1.4,
	"totally":    1.3,
	"so":         1.2,
	"super":      1.3,
	"insanely":   1.5,
	"pretty":     1.1,
	"quite":      1.1,
	"somewhat":   0.8,
	"slightly":   0.7,
	"kinda":      0.8,
	"sorta":      0.8,
	"bit":        0.8,
}
