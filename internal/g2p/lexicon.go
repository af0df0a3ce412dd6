package g2p

// letterRules maps English grapheme sequences to IPA phonemes, longest first.
var letterRules = map[string]string{
	"tion": "ʃən",
	"sion": "ʒən",
	"ough": "ʌf",
	"ight": "aɪt",
	"ture": "tʃɚ",
	"sure": "ʃɚ",
	"ould": "ʊd",
	"ound": "aʊnd",
	"ence": "əns",
	"ance": "əns",
	"ment": "mənt",
	"ness": "nəs",
	"able": "əbəl",
	"ible": "əbəl",
	"ally": "əli",
	"ful":  "fəl",
	"ing":  "ɪŋ",
	"ght":  "t",
	"tch":  "tʃ",
	"dge":  "dʒ",
	"sch":  "sk",
	"que":  "k",
	"ph":   "f",
	"th":   "θ",
	"sh":   "ʃ",
	"ch":   "tʃ",
	"wh":   "w",
	"wr":   "ɹ",
	"kn":   "n",
	"gn":   "n",
	"ck":   "k",
	"ng":   "ŋ",
	"gh":   "",
	"ee":   "i",
	"ea":   "i",
	"oo":   "u",
	"ou":   "aʊ",
	"ow":   "oʊ",
	"ai":   "eɪ",
	"ay":   "eɪ",
	"oi":   "ɔɪ",
	"oy":   "ɔɪ",
	"au":   "ɔ",
	"aw":   "ɔ",
	"er":   "ɚ",
	"ir":   "ɝ",
	"ur":   "ɝ",
	"ar":   "ɑɹ",
	"or":   "ɔɹ",
	"le":   "əl",

	"a": "æ",
	"b": "b",
	"c": "k",
	"d": "d",
	"e": "ɛ",
	"f": "f",
	"g": "ɡ",
	"h": "h",
	"i": "ɪ",
	"j": "dʒ",
	"k": "k",
	"l": "l",
	"m": "m",
	"n": "n",
	"o": "ɑ",
	"p": "p",
	"q": "k",
	"r": "ɹ",
	"s": "s",
	"t": "t",
	"u": "ʌ",
	"v": "v",
	"w": "w",
	"x": "ks",
	"y": "j",
	"z": "z",
}

// lexicon holds dictionary pronunciations for frequent English words. Words
// missing here fall back to letterRules.
var lexicon = map[string]string{
	"the":     "ðə",
	"a":       "ə",
	"an":      "ən",
	"and":     "ænd",
	"or":      "ɔɹ",
	"is":      "ɪz",
	"are":     "ɑɹ",
	"was":     "wɑz",
	"were":    "wɝ",
	"be":      "bi",
	"been":    "bɪn",
	"have":    "hæv",
	"has":     "hæz",
	"had":     "hæd",
	"do":      "du",
	"does":    "dʌz",
	"did":     "dɪd",
	"will":    "wɪl",
	"would":   "wʊd",
	"could":   "kʊd",
	"should":  "ʃʊd",
	"may":     "meɪ",
	"might":   "maɪt",
	"can":     "kæn",
	"must":    "mʌst",
	"i":       "aɪ",
	"you":     "ju",
	"he":      "hi",
	"she":     "ʃi",
	"it":      "ɪt",
	"we":      "wi",
	"they":    "ðeɪ",
	"me":      "mi",
	"him":     "hɪm",
	"her":     "hɝ",
	"us":      "ʌs",
	"them":    "ðɛm",
	"my":      "maɪ",
	"your":    "jɔɹ",
	"his":     "hɪz",
	"its":     "ɪts",
	"our":     "aʊɚ",
	"their":   "ðɛɹ",
	"this":    "ðɪs",
	"that":    "ðæt",
	"these":   "ðiz",
	"those":   "ðoʊz",
	"what":    "wʌt",
	"which":   "wɪtʃ",
	"who":     "hu",
	"where":   "wɛɹ",
	"when":    "wɛn",
	"why":     "waɪ",
	"how":     "haʊ",
	"not":     "nɑt",
	"no":      "noʊ",
	"yes":     "jɛs",
	"to":      "tu",
	"of":      "ʌv",
	"in":      "ɪn",
	"on":      "ɑn",
	"at":      "æt",
	"by":      "baɪ",
	"for":     "fɔɹ",
	"with":    "wɪθ",
	"from":    "fɹʌm",
	"about":   "əbaʊt",
	"into":    "ɪntu",
	"through": "θɹu",
	"after":   "æftɚ",
	"before":  "bɪfɔɹ",
	"between": "bɪtwin",
	"under":   "ʌndɚ",
	"over":    "oʊvɚ",
	"up":      "ʌp",
	"down":    "daʊn",
	"out":     "aʊt",
	"off":     "ɔf",
	"if":      "ɪf",
	"then":    "ðɛn",
	"than":    "ðæn",
	"so":      "soʊ",
	"just":    "dʒʌst",
	"also":    "ɔlsoʊ",
	"very":    "vɛɹi",
	"well":    "wɛl",
	"here":    "hiɹ",
	"there":   "ðɛɹ",
	"now":     "naʊ",
	"only":    "oʊnli",
	"still":   "stɪl",
	"even":    "ivən",
	"again":   "əɡɛn",
	"good":    "ɡʊd",
	"new":     "nu",
	"first":   "fɝst",
	"last":    "læst",
	"long":    "lɔŋ",
	"great":   "ɡɹeɪt",
	"little":  "lɪtəl",
	"own":     "oʊn",
	"other":   "ʌðɚ",
	"old":     "oʊld",
	"right":   "ɹaɪt",
	"big":     "bɪɡ",
	"high":    "haɪ",
	"small":   "smɔl",
	"large":   "lɑɹdʒ",
	"next":    "nɛkst",
	"say":     "seɪ",
	"said":    "sɛd",
	"get":     "ɡɛt",
	"make":    "meɪk",
	"go":      "ɡoʊ",
	"see":     "si",
	"know":    "noʊ",
	"take":    "teɪk",
	"come":    "kʌm",
	"think":   "θɪŋk",
	"look":    "lʊk",
	"want":    "wɑnt",
	"give":    "ɡɪv",
	"use":     "juz",
	"find":    "faɪnd",
	"tell":    "tɛl",
	"ask":     "æsk",
	"work":    "wɝk",
	"feel":    "fil",
	"try":     "tɹaɪ",
	"leave":   "liv",
	"call":    "kɔl",
	"need":    "nid",
	"keep":    "kip",
	"let":     "lɛt",
	"begin":   "bɪɡɪn",
	"show":    "ʃoʊ",
	"hear":    "hiɹ",
	"play":    "pleɪ",
	"run":     "ɹʌn",
	"move":    "muv",
	"live":    "lɪv",
	"hold":    "hoʊld",
	"bring":   "bɹɪŋ",
	"write":   "ɹaɪt",
	"sit":     "sɪt",
	"stand":   "stænd",
	"pay":     "peɪ",
	"meet":    "mit",
	"set":     "sɛt",
	"learn":   "lɝn",
	"change":  "tʃeɪndʒ",
	"watch":   "wɑtʃ",
	"follow":  "fɑloʊ",
	"stop":    "stɑp",
	"speak":   "spik",
	"read":    "ɹid",
	"grow":    "ɡɹoʊ",
	"open":    "oʊpən",
	"walk":    "wɔk",
	"win":     "wɪn",
	"love":    "lʌv",
	"buy":     "baɪ",
	"wait":    "weɪt",
	"send":    "sɛnd",
	"build":   "bɪld",
	"stay":    "steɪ",
	"fall":    "fɔl",
	"cut":     "kʌt",
	"reach":   "ɹitʃ",
	"world":   "wɝld",
	"hello":   "hɛloʊ",
	"okay":    "oʊkeɪ",
	"sure":    "ʃʊɹ",
	"thanks":  "θæŋks",
	"sorry":   "sɑɹi",
	"please":  "pliz",
}
