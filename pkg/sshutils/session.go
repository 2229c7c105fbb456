package sshutils

import (
	"net"
	"runtime"
	"strconv"

	"github.com/pkg/sftp"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

// Session owns one authenticated connection to a remote host. It is not safe
// for concurrent structural mutation: one owner connects, uses it, and
// disconnects. Callers wanting parallel commands should serialize access or
// hold one Session per unit of work.
type Session struct {
	cfg    *SSHConfig
	state  SessionState
	client SSHClienter

	sftpCreator SFTPClientCreator
	log         *logger.Logger
}

// NewSession returns a Session in the Disconnected state.
func NewSession(cfg *SSHConfig) *Session {
	return &Session{
		cfg:         cfg,
		state:       StateDisconnected,
		sftpCreator: defaultSFTPClientCreator,
		log:         cfg.logger(),
	}
}

// Connect establishes and authenticates the transport. On failure the session
// is left in the Failed state and the returned error is a *ConnectError
// carrying the classified cause. Config errors are detected before any socket
// is opened.
func (s *Session) Connect() error {
	s.state = StateConnecting

	if err := s.cfg.Validate(); err != nil {
		s.state = StateFailed
		s.log.Error("connection failed",
			logger.String("cause", ErrKindConfig.String()),
			logger.Error(err),
		)
		return err
	}

	clientConfig, err := s.cfg.clientConfig()
	if err != nil {
		s.state = StateFailed
		cerr := newConnectError(ErrKindConfig, s.cfg.Host, s.cfg.Port, err)
		s.log.Error("connection failed",
			logger.String("cause", cerr.Kind.String()),
			logger.Error(err),
		)
		return cerr
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	client, err := s.cfg.dialer().Dial("tcp", addr, clientConfig)
	if err != nil {
		s.state = StateFailed
		cerr := newConnectError(classifyConnectError(err), s.cfg.Host, s.cfg.Port, err)
		s.log.Error("connection failed",
			logger.String("host", s.cfg.Host),
			logger.Int("port", s.cfg.Port),
			logger.String("cause", cerr.Kind.String()),
			logger.Error(err),
		)
		return cerr
	}

	s.client = client
	s.state = StateConnected

	// Last-resort guard; explicit Disconnect (or WithSession) is the primary
	// release mechanism because finalization timing is not guaranteed.
	runtime.SetFinalizer(s, (*Session).finalize)

	s.log.Info("connected to remote host",
		logger.String("host", s.cfg.Host),
		logger.Int("port", s.cfg.Port),
		logger.String("user", s.cfg.User),
		logger.String("host_key_policy", s.cfg.HostKeyPolicy.String()),
	)
	return nil
}

// Disconnect closes the transport if open. Idempotent and it never fails:
// close errors are logged and discarded.
func (s *Session) Disconnect() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.log.Warn("error while closing connection", logger.Error(err))
		}
		s.client = nil
		s.log.Info("disconnected from remote host", logger.String("host", s.cfg.Host))
	}
	s.state = StateDisconnected
	runtime.SetFinalizer(s, nil)
}

func (s *Session) finalize() {
	if s.state == StateConnected {
		s.Disconnect()
	}
}

// State reports the current lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// Connected reports whether the session can carry commands.
func (s *Session) Connected() bool {
	return s.state == StateConnected && s.client != nil
}

// Connect is a convenience for callers that want the connected session or the
// classified error in one call.
func Connect(cfg *SSHConfig) (*Session, error) {
	s := NewSession(cfg)
	if err := s.Connect(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithSession is the scoped-resource form: it connects, runs fn, and always
// disconnects, whether fn succeeds or fails.
func WithSession(cfg *SSHConfig, fn func(*Session) error) error {
	s := NewSession(cfg)
	if err := s.Connect(); err != nil {
		return err
	}
	defer s.Disconnect()
	return fn(s)
}

func defaultSFTPClientCreator(client SSHClienter) (SFTPClienter, error) {
	wrapper, ok := client.(*SSHClientWrapper)
	if !ok {
		return nil, errInvalidClientType
	}
	sftpClient, err := sftp.NewClient(wrapper.Client)
	if err != nil {
		return nil, err
	}
	return &sftpClientWrapper{client: sftpClient}, nil
}
