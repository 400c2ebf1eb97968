package config

const SourceFileExt = ".js"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".js", ".jsmm"}

// Exercise configuration file names, in lookup order.
var ExerciseFileNames = []string{"jsmm.yaml", "jsmm.yml", "jsmm.toml"}

// Strategy names
const (
	StrategyRaw  = "raw"
	StrategySafe = "safe"
	StrategyStep = "step"
)

// Default limits
const (
	DefaultMaxStatements = 10000
	DefaultMaxCallDepth  = 100
	// MaxArrayLength bounds array growth through index writes and length.
	MaxArrayLength = 100000
)

// LanguageGroup is the command filter entry that stands for every language
// construct tag.
const LanguageGroup = "jsmm"

// Language command tags
const (
	TagPostfix    = "++"
	TagConcat     = "+s"
	TagArithmetic = "+"
	TagCompound   = "+="
	TagCompare    = ">"
	TagEquality   = "=="
	TagLogical    = "&&"
	TagNot        = "!"
	TagAssign     = "="
	TagVar        = "var"
	TagIf         = "if"
	TagElse       = "else"
	TagWhile      = "while"
	TagFor        = "for"
	TagFunction   = "function"
	TagReturn     = "return"
	TagCall       = "call"
)

// LanguageTags lists every tag covered by LanguageGroup.
var LanguageTags = []string{
	TagPostfix, TagConcat, TagArithmetic, TagCompound, TagCompare, TagEquality,
	TagLogical, TagNot, TagAssign, TagVar, TagIf, TagElse, TagWhile, TagFor,
	TagFunction, TagReturn, TagCall,
}

// Host names
const (
	ConsoleName = "console"
	MathName    = "Math"
)
