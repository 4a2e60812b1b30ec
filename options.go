package rescache

import (
	"math/rand/v2"
	"reflect"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	c "github.com/unkn0wn-root/rescache/codec"
)

// TTLFunc returns the TTL of one write.
type TTLFunc func() time.Duration

// Options tune one cached resource type.
// Only Store is required; others have sensible defaults.
type Options[R Record] struct {
	// Required
	Store CacheStore

	ResourceType string     // key namespace; "" => name of R's type ("Widget" => "widget")
	Codec        c.Codec[R] // nil => codec.JSON
	Logger       Logger     // if nil, NopLogger is used
	Hooks        Hooks      // if nil, NopHooks is used

	Disabled               bool // every find goes to the Finder; results are still written through
	DisableCollectionCache bool // never serve or store collection-shaped requests
	CollectionSynchronize  bool // keep the full-collection entry coherent with newer fetches
	CollectionArgs         Args // the "find everything" request; nil => Args{All}

	TTL              time.Duration // 0 => 1 week; <0 => no expiry
	TTLFunc          TTLFunc       // overrides TTL when set
	RaceConditionTTL time.Duration // 0 => 1 day; <0 => no grace window
}

// Validate checks o with defaults applied.
func (o Options[R]) Validate() error {
	d := o.withDefaults()
	return validation.ValidateStruct(&d,
		validation.Field(&d.Store, validation.Required),
		validation.Field(&d.ResourceType, validation.Required),
		validation.Field(&d.CollectionArgs, validation.Required),
	)
}

func (o Options[R]) withDefaults() Options[R] {
	if o.ResourceType == "" {
		o.ResourceType = typeName[R]()
	}
	if o.Codec == nil {
		o.Codec = c.JSON[R]{}
	}
	o.Logger = coalesce[Logger](o.Logger, NopLogger{})
	o.Hooks = coalesce[Hooks](o.Hooks, NopHooks{})
	if o.CollectionArgs == nil {
		o.CollectionArgs = Args{All}
	}
	o.TTL = coalesce(o.TTL, defaultTTL)
	o.RaceConditionTTL = coalesce(o.RaceConditionTTL, defaultRaceConditionTTL)
	return o
}

func typeName[R any]() string {
	t := reflect.TypeOf((*R)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// RandomTTL spreads expiry so entries written together don't expire together.
// Each call returns base scaled by a factor drawn uniformly from [lo, hi).
func RandomTTL(base time.Duration, lo, hi float64) TTLFunc {
	if hi < lo {
		lo, hi = hi, lo
	}
	return func() time.Duration {
		f := lo + rand.Float64()*(hi-lo)
		return time.Duration(float64(base) * f)
	}
}
