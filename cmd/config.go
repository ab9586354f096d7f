package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment. A .env file in the working directory
// is loaded first when it exists; real environment variables win.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DB       DBConfig
	Kafka    KafkaConfig
	Business BusinessConfig
	Jobs     JobsConfig
	Log      LogConfig

	OtelEndpoint string `envconfig:"OTEL_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"mealorder"`
}

type DBConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" required:"true"`
	Password        string        `envconfig:"DB_PASSWORD" required:"true"`
	Name            string        `envconfig:"DB_NAME" required:"true"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	Driver          string        `envconfig:"DB_DRIVER" default:"pgx"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	SlowThreshold   time.Duration `envconfig:"DB_SLOW_THRESHOLD" default:"200ms"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN is the keyword/value form understood by both pgx and lib/pq.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// KafkaConfig with no brokers publishes outbox messages to the log instead.
type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS"`
	BatchTimeout time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"5s"`
}

type BusinessConfig struct {
	TimeZone              string        `envconfig:"BUSINESS_TIME_ZONE" default:"America/Vancouver"`
	OrderNumberPrefix     string        `envconfig:"ORDER_NUMBER_PREFIX" default:"FB"`
	SequenceWidth         int           `envconfig:"ORDER_SEQUENCE_WIDTH" default:"3"`
	FreeDeliveryThreshold string        `envconfig:"FREE_DELIVERY_THRESHOLD" default:"75.00"`
	PostalCodePattern     string        `envconfig:"POSTAL_CODE_PATTERN"`
	WorkflowTimeout       time.Duration `envconfig:"WORKFLOW_TIMEOUT" default:"10s"`
	NotifierBuffer        int           `envconfig:"LOW_STOCK_NOTIFIER_BUFFER" default:"64"`
	DeliveryRules         DeliveryRules `envconfig:"DELIVERY_RULES"`
}

type JobsConfig struct {
	OutboxRelaySchedule   string `envconfig:"OUTBOX_RELAY_SCHEDULE" default:"*/2 * * * * *"`
	RelayBatchSize        int    `envconfig:"OUTBOX_RELAY_BATCH_SIZE" default:"100"`
	LowStockSweepSchedule string `envconfig:"LOW_STOCK_SWEEP_SCHEDULE" default:"0 */15 * * * *"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// DeliveryRules decodes DELIVERY_RULES, a semicolon separated list of
// WEEKDAY|DAYS_BEFORE|HH:MM|WINDOW LABEL entries, e.g.
//
//	SUN|5|18:00|Sunday 16:00-20:00;WED|4|18:00|Wednesday 16:00-20:00
//
// An empty value keeps the Sunday and Wednesday defaults.
type DeliveryRules []services.DeliveryRule

var weekdays = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

func (r *DeliveryRules) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*r = nil
		return nil
	}

	var rules DeliveryRules
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rule, err := parseDeliveryRule(entry)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}
	*r = rules
	return nil
}

func parseDeliveryRule(entry string) (services.DeliveryRule, error) {
	parts := strings.Split(entry, "|")
	if len(parts) != 4 {
		return services.DeliveryRule{}, errs.NewValueIsInvalidErrorWithCause(
			"deliveryRule", fmt.Errorf("%q must have 4 fields", entry))
	}

	weekday, ok := weekdays[strings.ToUpper(strings.TrimSpace(parts[0]))]
	if !ok {
		return services.DeliveryRule{}, errs.NewValueIsInvalidErrorWithCause(
			"deliveryRule", fmt.Errorf("unknown weekday %q", parts[0]))
	}
	daysBefore, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return services.DeliveryRule{}, errs.NewValueIsInvalidErrorWithCause("deliveryRule", err)
	}
	cutoff, err := services.ParseClockTime(parts[2])
	if err != nil {
		return services.DeliveryRule{}, err
	}

	return services.DeliveryRule{
		Weekday:     weekday,
		DaysBefore:  daysBefore,
		Cutoff:      cutoff,
		WindowLabel: strings.TrimSpace(parts[3]),
	}, nil
}

// Rules returns the configured table or the defaults.
func (r DeliveryRules) Rules() []services.DeliveryRule {
	if len(r) == 0 {
		return services.DefaultDeliveryRules()
	}
	return []services.DeliveryRule(r)
}

func (c BusinessConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("timeZone", err)
	}
	return loc, nil
}

func (c BusinessConfig) Threshold() (kernel.Money, error) {
	return kernel.MoneyFromString(c.FreeDeliveryThreshold)
}

// PostalCodeRegexp is nil when no pattern is configured, which selects the
// Canadian default.
func (c BusinessConfig) PostalCodeRegexp() (*regexp.Regexp, error) {
	if c.PostalCodePattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.PostalCodePattern)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("postalCodePattern", err)
	}
	return re, nil
}

// LoadConfig reads .env when present and decodes the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errs.Wrap(err, "load .env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errs.Wrap(err, "process env config")
	}
	return cfg, nil
}
