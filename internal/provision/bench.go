package provision

func (s *Service) stepBenchmark() error {
	if s.ConfirmBench == nil || !s.ConfirmBench() {
		s.Log.Infof("benchmark skipped")
		return nil
	}

	tmp := s.tmpPath("bench")
	if err := s.Fetch.Download(s.H, s.Set.BenchURL, tmp, 0o700); err != nil {
		s.Log.Warnf("download benchmark script: %v", err)
		return nil
	}
	s.track(tmp)

	out, err := s.H.Run("bash " + tmp)
	_ = s.H.Remove(tmp)
	if err != nil {
		s.Log.Warnf("benchmark exited with an error: %v", err)
	}
	s.Log.Printf("%s\n", out)
	return nil
}

// stepCleanup removes any downloaded scripts the earlier steps did not get
// to delete themselves (e.g. after an execution panic on the remote side).
func (s *Service) stepCleanup() error {
	for _, p := range s.tmpFiles {
		if err := s.H.Remove(p); err != nil {
			s.Log.Warnf("remove %s: %v", p, err)
		}
	}
	s.tmpFiles = nil
	s.Log.Infof("transient files removed")
	return nil
}
