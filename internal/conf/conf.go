package conf

type Bootstrap struct {
	Server *Server
	Data   *Data
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

// Database selects the backend variant: driver "postgres" (networked) or
// "sqlite" (embedded single-file store). Source is the driver DSN.
type Database struct {
	Driver string
	Source string
}
