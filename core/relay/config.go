package relay

// Config holds configuration for the Redis event relay.
type Config struct {
	// Enabled turns the relay on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Address is the Redis host:port.
	Address string `mapstructure:"address" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// ChannelPrefix namespaces the published channels.
	ChannelPrefix string `mapstructure:"channel_prefix" default:"warehouse-sync"`
	// BufferSize is how many events may wait for publication before new ones are dropped.
	BufferSize int `mapstructure:"buffer_size" default:"256"`
}
