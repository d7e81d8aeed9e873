package state

// RemoteTrack is the media handle for one remote participant, keyed in the
// container by the provider's participant session id.
type RemoteTrack struct {
	SessionID    string
	Username     string
	AudioEnabled bool
	VideoEnabled bool
}

// RTCState mirrors the video-conferencing session. At most one session is
// live per client; the video client's join latch enforces that, this
// container only reflects it.
type RTCState struct {
	Connected    bool
	Connecting   bool
	RoomURL      string
	LocalAudio   bool
	LocalVideo   bool
	RemoteTracks map[string]RemoteTrack
	Err          string
}

func initialRTCState() RTCState {
	return RTCState{
		LocalAudio:   true,
		LocalVideo:   true,
		RemoteTracks: map[string]RemoteTrack{},
	}
}

// RTCAction is the action set owned by the rtc container.
type RTCAction interface {
	Action
	isRTC()
}

// RTCConnecting flips the join-in-progress flag.
type RTCConnecting struct{ Connecting bool }

// RTCConnected records session establishment or teardown.
type RTCConnected struct{ Connected bool }

// RoomURLSet stores the provider room URL for the current session.
type RoomURLSet struct{ URL string }

// RemoteTrackAdded adds or replaces a remote participant's media handle.
type RemoteTrackAdded struct{ Track RemoteTrack }

// RemoteTrackRemoved drops a participant's media handle.
type RemoteTrackRemoved struct{ SessionID string }

// LocalAudioSet mirrors the local microphone enablement.
type LocalAudioSet struct{ Enabled bool }

// LocalVideoSet mirrors the local camera enablement.
type LocalVideoSet struct{ Enabled bool }

// RTCErrorSet captures a session-level provider error. Callers observe this
// field; the video client never propagates provider errors to screens.
type RTCErrorSet struct{ Err string }

// RTCErrorCleared clears the error field.
type RTCErrorCleared struct{}

// RTCReset returns the container to its initial value on room teardown.
type RTCReset struct{}

func (RTCConnecting) isAction()      {}
func (RTCConnecting) isRTC()         {}
func (RTCConnected) isAction()       {}
func (RTCConnected) isRTC()          {}
func (RoomURLSet) isAction()         {}
func (RoomURLSet) isRTC()            {}
func (RemoteTrackAdded) isAction()   {}
func (RemoteTrackAdded) isRTC()      {}
func (RemoteTrackRemoved) isAction() {}
func (RemoteTrackRemoved) isRTC()    {}
func (LocalAudioSet) isAction()      {}
func (LocalAudioSet) isRTC()         {}
func (LocalVideoSet) isAction()      {}
func (LocalVideoSet) isRTC()         {}
func (RTCErrorSet) isAction()        {}
func (RTCErrorSet) isRTC()           {}
func (RTCErrorCleared) isAction()    {}
func (RTCErrorCleared) isRTC()       {}
func (RTCReset) isAction()           {}
func (RTCReset) isRTC()              {}

func copyTracks(m map[string]RemoteTrack) map[string]RemoteTrack {
	out := make(map[string]RemoteTrack, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func reduceRTC(s RTCState, a RTCAction) RTCState {
	switch act := a.(type) {
	case RTCConnecting:
		s.Connecting = act.Connecting
	case RTCConnected:
		s.Connected = act.Connected
		if act.Connected {
			s.Connecting = false
			s.Err = ""
		}
	case RoomURLSet:
		s.RoomURL = act.URL
	case RemoteTrackAdded:
		tracks := copyTracks(s.RemoteTracks)
		tracks[act.Track.SessionID] = act.Track
		s.RemoteTracks = tracks
	case RemoteTrackRemoved:
		tracks := copyTracks(s.RemoteTracks)
		delete(tracks, act.SessionID)
		s.RemoteTracks = tracks
	case LocalAudioSet:
		s.LocalAudio = act.Enabled
	case LocalVideoSet:
		s.LocalVideo = act.Enabled
	case RTCErrorSet:
		s.Err = act.Err
		s.Connecting = false
	case RTCErrorCleared:
		s.Err = ""
	case RTCReset:
		s = initialRTCState()
	}
	return s
}
